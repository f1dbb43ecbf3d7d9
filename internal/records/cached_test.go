package records_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	"expensetracker/internal/records"
	"expensetracker/internal/records/memory"
)

// countingStore counts list calls reaching the backend.
type countingStore struct {
	records.Store
	lists int
}

func (c *countingStore) ListForUser(ctx context.Context, userID string) ([]core.Expense, error) {
	c.lists++
	return c.Store.ListForUser(ctx, userID)
}

func TestCachedStoreServesRepeatedListsFromCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: memory.New()}
	store := records.NewCachedStore(backend, cache.NewLRU[[]core.Expense](8, time.Minute))

	e := core.Expense{UserID: "alice", Amount: core.Money{Cents: 100}, Category: "Travel", Date: core.NewDate(2025, 1, 1)}
	id, err := store.Create(ctx, e)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		list, err := store.ListForUser(ctx, "alice")
		if err != nil || len(list) != 1 {
			t.Fatalf("list: %v %v", list, err)
		}
	}
	if backend.lists != 1 {
		t.Fatalf("expected 1 backend list call, got %d", backend.lists)
	}

	// Writes drop the cached list.
	if _, err := store.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	if list, _ := store.ListForUser(ctx, "alice"); len(list) != 2 {
		t.Fatalf("stale list after create: %d", len(list))
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if list, _ := store.ListForUser(ctx, "alice"); len(list) != 1 {
		t.Fatalf("stale list after delete: %d", len(list))
	}

	cat := "Shopping"
	remaining, _ := store.ListForUser(ctx, "alice")
	if err := store.Update(ctx, remaining[0].ID, records.Patch{Category: &cat}); err != nil {
		t.Fatal(err)
	}
	if list, _ := store.ListForUser(ctx, "alice"); list[0].Category != "Shopping" {
		t.Fatalf("stale list after update: %+v", list[0])
	}
	if backend.lists != 4 {
		t.Fatalf("expected 4 backend list calls, got %d", backend.lists)
	}
}

// blockingStore parks list calls for one user until release is closed.
type blockingStore struct {
	records.Store
	user    string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) ListForUser(ctx context.Context, userID string) ([]core.Expense, error) {
	list, err := b.Store.ListForUser(ctx, userID)
	if userID == b.user {
		b.once.Do(func() {
			close(b.started)
			<-b.release
		})
	}
	return list, err
}

func TestCachedStoreDropsListReadBeforeCreate(t *testing.T) {
	ctx := context.Background()
	backend := &blockingStore{
		Store:   memory.New(),
		user:    "alice",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := records.NewCachedStore(backend, cache.NewLRU[[]core.Expense](8, time.Minute))

	done := make(chan int)
	go func() {
		list, _ := store.ListForUser(ctx, "alice")
		done <- len(list)
	}()
	<-backend.started

	e := core.Expense{UserID: "alice", Amount: core.Money{Cents: 700}, Category: "Travel", Date: core.NewDate(2025, 1, 2)}
	if _, err := store.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	close(backend.release)
	if n := <-done; n != 0 {
		t.Fatalf("slow list saw %d records, want the empty snapshot", n)
	}

	list, err := store.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list after create has %d records, want 1", len(list))
	}
}

func TestCachedStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := records.NewCachedStore(memory.New(), cache.NewLRU[[]core.Expense](8, time.Minute))
	if _, err := store.Create(ctx, core.Expense{UserID: "alice", Amount: core.Money{Cents: 100}, Category: "Travel", Date: core.NewDate(2025, 1, 1)}); err != nil {
		t.Fatal(err)
	}
	first, _ := store.ListForUser(ctx, "alice")
	first[0].Category = "mutated"
	second, _ := store.ListForUser(ctx, "alice")
	if second[0].Category != "Travel" {
		t.Fatalf("cached list was mutated: %+v", second[0])
	}
}

func TestSortByDateDesc(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []core.Expense{
		{ID: "old", Date: core.NewDate(2025, 1, 1), CreatedAt: base},
		{ID: "new-first", Date: core.NewDate(2025, 2, 1), CreatedAt: base},
		{ID: "new-second", Date: core.NewDate(2025, 2, 1), CreatedAt: base.Add(time.Second)},
	}
	records.SortByDateDesc(list)
	want := []string{"new-second", "new-first", "old"}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, list[i].ID, id)
		}
	}
}
