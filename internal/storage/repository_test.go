package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	in := core.Expense{
		UserID:      "alice",
		Amount:      core.Money{Cents: 4250},
		Category:    "Food & Dining",
		Description: "lunch",
		Date:        core.NewDate(2025, 1, 15),
	}
	id, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, core.Expense{UserID: "alice", Amount: core.Money{Cents: 100}, Category: "Travel", Date: core.NewDate(2025, 2, 1)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, core.Expense{UserID: "bob", Amount: core.Money{Cents: 100}, Category: "Travel", Date: core.NewDate(2025, 2, 1)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].Date.String() != "2025-02-01" || list[1].ID != id {
		t.Fatalf("unexpected order: %+v", list)
	}

	got := list[1]
	if got.Amount.Cents != 4250 || got.Category != "Food & Dining" || got.Description != "lunch" || got.Date.String() != "2025-01-15" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %v %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestSQLiteUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	clock := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	id, err := repo.Create(ctx, core.Expense{UserID: "alice", Amount: core.Money{Cents: 100}, Category: "Travel", Date: core.NewDate(2025, 1, 1)})
	if err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(time.Minute)
	cat := "Shopping"
	day := core.NewDate(2025, 1, 2)
	if err := repo.Update(ctx, id, records.Patch{Category: &cat, Date: &day}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "Shopping" || got.Date.String() != "2025-01-02" || got.Amount.Cents != 100 {
		t.Fatalf("unexpected record after update: %+v", got)
	}
	if !got.UpdatedAt.Equal(clock) {
		t.Fatalf("expected updated_at %v, got %v", clock, got.UpdatedAt)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Create(context.Background(), core.Expense{UserID: "alice", Amount: core.Money{Cents: 100}, Category: "Unknown", Date: core.NewDate(2025, 1, 1)})
	if !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

var _ records.Store = (*SQLiteRepository)(nil)

func TestMigrateUpIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	for i := 0; i < 2; i++ {
		v, err := migrateUp(path)
		if err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
		if v != 1 {
			t.Fatalf("run %d: version = %d, want 1", i+1, v)
		}
	}
}
