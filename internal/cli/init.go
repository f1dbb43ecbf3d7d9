// Package cli wires configuration, logging and the record store into the
// expensetracker sub-commands.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"expensetracker/internal/auth"
	"expensetracker/internal/backend"
	"expensetracker/internal/cache"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/sheets"
	gsheet "expensetracker/internal/sheets/google"
	sheetsmem "expensetracker/internal/sheets/memory"
)

// SetupLogger builds the application logger from cfg and makes it the
// slog default.
func SetupLogger(cfg *config.Config, out io.Writer) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads the TOML file at path (optional) plus the
// environment and validates the result.
func LoadAndValidateConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is what every sub-command starts from.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
}

func bootstrap(out io.Writer) (*app, error) {
	LoadEnvFile()

	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := LoadAndValidateConfig(path)
	if err != nil {
		return nil, err
	}
	logger, err := SetupLogger(cfg, out)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

// openStore creates the configured record store. caches may be nil.
func (a *app) openStore(ctx context.Context, caches *cache.Manager) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(a.logger.WithComponent(applog.ComponentBackend).Logger, caches)
	return factory.CreateBackend(ctx, bc)
}

// newExporter returns the Google Sheets exporter, or an in-memory one when no
// spreadsheet is configured.
func (a *app) newExporter(ctx context.Context) (sheets.RecordExporter, error) {
	logger := a.logger.WithComponent(applog.ComponentSheets)
	if a.cfg.GoogleSpreadsheetID == "" {
		logger.Warn("No GOOGLE_SPREADSHEET_ID set, exporting to memory only")
		return sheetsmem.New(), nil
	}

	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
		SheetName:       a.cfg.GoogleSheetName,
		CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
		CredentialsFile: a.cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	if err := client.EnsureHeader(ctx); err != nil {
		return nil, fmt.Errorf("write sheet header: %w", err)
	}
	logger.Info("Google Sheets export enabled",
		"spreadsheet_id", a.cfg.GoogleSpreadsheetID,
		"sheet", a.cfg.GoogleSheetName)
	return client, nil
}

// devIdentity is who the dev provider signs everyone in as.
var devIdentity = auth.Identity{
	ID:          "dev-user",
	DisplayName: "Demo User",
	Email:       "demo@localhost",
}

// newIdentity builds the sign-in provider and session manager.
func (a *app) newIdentity() (auth.Provider, *auth.Sessions, error) {
	cfg := a.cfg
	secret := cfg.SessionSecret

	var provider auth.Provider
	switch cfg.AuthProvider {
	case config.AuthGoogle:
		provider = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	default:
		provider = &auth.DevProvider{Identity: devIdentity, CallbackURL: "/auth/callback"}
		if secret == "" {
			generated, err := randomSecret()
			if err != nil {
				return nil, nil, err
			}
			secret = generated
			a.logger.WithComponent(applog.ComponentAuth).Warn(
				"No SESSION_SECRET set, using a random one; sessions end on restart")
		}
	}

	return provider, auth.NewSessions(secret, cfg.SessionTTL, cfg.SecureCookies()), nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
