package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/records"
	"expensetracker/internal/records/memory"
	"expensetracker/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromAppConfig(t *testing.T) {
	app := config.Defaults()
	app.DataBackend = config.BackendMongo
	app.MongoURI = "mongodb://localhost:27017"
	app.RecordCacheTTL = time.Minute
	app.RecordCacheSize = 10

	got, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if got.Type != MongoBackend || got.MongoURI != app.MongoURI || got.MongoCollection != "expenses" {
		t.Fatalf("unexpected config %+v", got)
	}
	if got.CacheTTL != time.Minute || got.CacheSize != 10 {
		t.Fatalf("cache settings not copied: %+v", got)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	app.DataBackend = "sheets"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"memory", Config{Type: MemoryBackend}, ""},
		{"unknown type", Config{Type: "redis"}, "invalid backend type: redis (want one of memory, sqlite, mongo)"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"mongo without uri", Config{Type: MongoBackend, MongoDatabase: "db", MongoCollection: "c"}, "MongoDB URI"},
		{"mongo without collection", Config{Type: MongoBackend, MongoURI: "mongodb://x", MongoDatabase: "db"}, "database and collection"},
		{"negative ttl", Config{Type: MemoryBackend, CacheTTL: -time.Second}, "cannot be negative"},
		{"cache without size", Config{Type: MemoryBackend, CacheTTL: time.Second}, "cache size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(quietLogger(), nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", res.Store)
	}
	if res.Cached {
		t.Fatalf("cache should be off when TTL is zero")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "expenses.db")
	res, err := NewFactory(quietLogger(), nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	if _, ok := res.Store.(*storage.SQLiteRepository); !ok {
		t.Fatalf("expected sqlite repository, got %T", res.Store)
	}

	ctx := context.Background()
	id, err := res.Store.Create(ctx, core.Expense{
		UserID:   "alice",
		Amount:   core.Money{Cents: 250},
		Category: "Travel",
		Date:     core.NewDate(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := res.Store.Get(ctx, id); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestCreateBackendWrapsCache(t *testing.T) {
	manager := cache.NewManager(quietLogger())
	res, err := NewFactory(quietLogger(), manager).CreateBackend(context.Background(), Config{
		Type:      MemoryBackend,
		CacheTTL:  time.Minute,
		CacheSize: 4,
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if !res.Cached {
		t.Fatalf("expected cached store")
	}
	if _, ok := res.Store.(*records.CachedStore); !ok {
		t.Fatalf("expected CachedStore, got %T", res.Store)
	}

	ctx := context.Background()
	if _, err := res.Store.ListForUser(ctx, "alice"); err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if n := manager.Sweep(); n != 0 {
		t.Fatalf("fresh entries must survive a sweep, removed %d", n)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(quietLogger(), nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "memory,sqlite,mongo" {
		t.Fatalf("unexpected types %q", got)
	}
}
