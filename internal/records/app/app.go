package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/anonymize"
	httpapi "github.com/oakfieldhealth/wardgate/internal/records/http"
	"github.com/oakfieldhealth/wardgate/internal/records/metrics"
	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/internal/records/store/drivers/sqlite"
	"github.com/oakfieldhealth/wardgate/pkg/cryptox"
	"github.com/oakfieldhealth/wardgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the records service together: store, anonymizer, session
// gate, background retention sweeper, and HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	metrics *metrics.Metrics

	gate      *service.Gate
	sessions  *service.SessionManager
	retention *service.RetentionService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "wardgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.retention.Start()

	app.logger.Info("wardgate starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server, the sweeper, and the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down wardgate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.retention.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("wardgate stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	app.metrics = metrics.New()

	keeper, err := cryptox.NewKeeperFromFile(app.cfg.FieldKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load field encryption key: %w", err)
	}

	secret := app.cfg.SessionSecret
	if secret == "" {
		// Per-boot secret. Restart invalidates all handles, which matches
		// the in-memory session registry anyway.
		secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	app.sessions = service.NewSessionManager([]byte(secret), app.cfg.IdleTimeout, app.metrics)
	app.gate = service.NewGate(app.db, anonymize.New(keeper), app.sessions, app.logger, app.metrics)

	app.retention = service.NewRetentionService(
		app.db,
		app.logger,
		app.metrics,
		app.cfg.SweepInterval,
		app.cfg.RetentionDays,
		app.cfg.AuditRetentionDays,
	)

	bootstrap := &service.BootstrapService{
		Store:    app.db,
		Logger:   app.logger,
		SeedDemo: app.cfg.SeedDemo,
	}
	if err := bootstrap.Bootstrap(context.Background()); err != nil {
		return fmt.Errorf("failed to bootstrap roles: %w", err)
	}

	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.gate, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
