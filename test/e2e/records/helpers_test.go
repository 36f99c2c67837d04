package records_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakfieldhealth/wardgate/internal/records/anonymize"
	httpapi "github.com/oakfieldhealth/wardgate/internal/records/http"
	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/internal/records/store/drivers/sqlite"
	"github.com/oakfieldhealth/wardgate/pkg/cryptox"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// Demo accounts seeded by the bootstrap service.
const (
	adminUsername = "admin"
	adminPassword = "admin123"
	docUsername   = "dr_bob"
	docPassword   = "doc123"
	recepUsername = "alice_recep"
	recepPassword = "rec123"
)

// setupServer boots the full stack in-process: in-memory SQLite, seeded demo
// accounts, session gate, and the real router. Returns the server's base URL.
func setupServer(t *testing.T) string {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	boot := &service.BootstrapService{Store: st, Logger: logger, SeedDemo: true}
	require.NoError(t, boot.Bootstrap(context.Background()))

	keeper, err := cryptox.NewKeeper([]byte("e2e-field-key"))
	require.NoError(t, err)

	sessions := service.NewSessionManager([]byte("e2e-signing-secret"), 30*time.Minute, nil)
	gate := service.NewGate(st, anonymize.New(keeper), sessions, logger, nil)

	router := httpapi.NewRouter("e2e", st, gate, logger)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func login(t *testing.T, client *wardsdk.Client, username, password string) *wardsdk.Session {
	t.Helper()
	session, err := client.Login(t.Context(), username, password, "")
	require.NoError(t, err)
	return session
}

func samplePatient() wardsdk.PatientRequest {
	return wardsdk.PatientRequest{
		Name:      "Jane van Doe",
		Contact:   "0412 345 678",
		Diagnosis: "Asthma, moderate persistent",
	}
}
