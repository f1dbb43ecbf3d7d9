// Package memory is an in-process record store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/records"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Expense
	now   func() time.Time
}

func New() *Store {
	return &Store{items: make(map[string]core.Expense), now: time.Now}
}

// WithClock overrides the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Create stores the expense under a fresh UUID.
func (s *Store) Create(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = ts, ts
	s.items[e.ID] = e
	return e.ID, nil
}

func (s *Store) ListForUser(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	out := make([]core.Expense, 0)
	for _, e := range s.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	s.mu.Unlock()
	records.SortByDateDesc(out)
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, records.ErrNotFound
	}
	return e, nil
}

func (s *Store) Update(_ context.Context, id string, p records.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return records.ErrNotFound
	}
	p.Apply(&e, s.now().UTC())
	if err := e.Validate(); err != nil {
		return err
	}
	s.items[id] = e
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Len returns the number of stored records across all users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
