package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseFile  string // Optional: path to SQLite database file (default: ./wardgate.db)
	FieldKeyFile  string // Optional: path to field encryption key file (default: ./field.key)
	SessionSecret string // Optional: HMAC secret for session handles (generated per boot if unset)

	IdleTimeout        time.Duration // Session idle expiry (default: 30m)
	RetentionDays      int           // Patient record retention threshold (default: 365)
	AuditRetentionDays int           // Audit trail retention horizon (default: 730)
	SweepInterval      time.Duration // Background sweep interval (default: 24h)
	SeedDemo           bool          // Seed demo accounts on an empty database (default: true)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	return Config{
		DatabaseFile:  getEnvOrDefault("WARDGATE_DATABASE_FILE", "wardgate.db"),
		FieldKeyFile:  getEnvOrDefault("WARDGATE_FIELD_KEY_FILE", "field.key"),
		SessionSecret: os.Getenv("WARDGATE_SESSION_SECRET"),

		IdleTimeout:        getEnvDurationOrDefault("WARDGATE_IDLE_TIMEOUT", 30*time.Minute),
		RetentionDays:      getEnvIntOrDefault("WARDGATE_RETENTION_DAYS", 365),
		AuditRetentionDays: getEnvIntOrDefault("WARDGATE_AUDIT_RETENTION_DAYS", 730),
		SweepInterval:      getEnvDurationOrDefault("WARDGATE_SWEEP_INTERVAL", 24*time.Hour),
		SeedDemo:           getEnvBoolOrDefault("WARDGATE_SEED_DEMO", true),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	// Bare integers are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}
	return defaultValue
}
