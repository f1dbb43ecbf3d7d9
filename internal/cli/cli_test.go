package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "MONGO_URI",
		"AMQP_URL", "GOOGLE_SPREADSHEET_ID", "AUTH_PROVIDER", "SESSION_SECRET",
		"RECORD_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportPrintsTotals(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "expenses.db")

	repo, err := storage.NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	today := core.DateOf(time.Now())
	for _, e := range []core.Expense{
		{UserID: "alice", Amount: core.Money{Cents: 12_50}, Category: "Travel", Date: today},
		{UserID: "alice", Amount: core.Money{Cents: 7_50}, Category: "Shopping", Date: today},
		{UserID: "bob", Amount: core.Money{Cents: 500_00}, Category: "Travel", Date: today},
	} {
		if _, err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	repo.Close()

	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", path)
	t.Setenv("LOG_LEVEL", "error")

	out, err := run(t, "report", "--user", "alice", "--window", "1month")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Last Month", "₹20.00", "₹10.00", "Travel"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "₹500.00") {
		t.Fatalf("report includes another user's records:\n%s", out)
	}
}

func TestReportRejectsUnknownWindow(t *testing.T) {
	clearEnv(t)
	_, err := run(t, "report", "--user", "alice", "--window", "forever")
	if err == nil || !strings.Contains(err.Error(), `unknown window "forever"`) {
		t.Fatalf("expected unknown window error, got %v", err)
	}
}

func TestCommandsRejectInvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", "cassandra")

	_, err := run(t, "report", "--user", "alice", "--window", "6months")
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkerRequiresAMQP(t *testing.T) {
	clearEnv(t)
	_, err := run(t, "worker")
	if err == nil || !strings.Contains(err.Error(), "AMQP_URL") {
		t.Fatalf("expected AMQP_URL error, got %v", err)
	}
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogLevel = "loud"
	if _, err := SetupLogger(cfg, io.Discard); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewIdentity(t *testing.T) {
	logger := applog.New(applog.Config{Output: io.Discard})

	dev := &app{cfg: config.Defaults(), logger: logger}
	provider, sessions, err := dev.newIdentity()
	if err != nil {
		t.Fatalf("dev identity: %v", err)
	}
	if provider.Name() != "dev" || sessions == nil {
		t.Fatalf("unexpected dev provider %q", provider.Name())
	}

	cfg := config.Defaults()
	cfg.AuthProvider = config.AuthGoogle
	cfg.GoogleClientID = "client"
	cfg.GoogleClientSecret = "secret"
	cfg.OAuthRedirectURL = "https://example.com/auth/callback"
	cfg.SessionSecret = strings.Repeat("s", 32)
	google := &app{cfg: cfg, logger: logger}
	provider, _, err = google.newIdentity()
	if err != nil {
		t.Fatalf("google identity: %v", err)
	}
	if provider.Name() != "google" {
		t.Fatalf("expected google provider, got %q", provider.Name())
	}
}

func TestRandomSecretIsUnique(t *testing.T) {
	a, err := randomSecret()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := randomSecret()
	if len(a) != 64 || a == b {
		t.Fatalf("unexpected secrets %q %q", a, b)
	}
}
