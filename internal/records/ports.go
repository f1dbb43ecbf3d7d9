// Package records defines the contract between the application and the
// document store that persists expense records.
package records

import (
	"context"
	"errors"
	"sort"
	"time"

	"expensetracker/internal/core"
)

// ErrNotFound is returned when no record carries the requested ID.
var ErrNotFound = errors.New("expense not found")

// Patch lists the fields to change on update. Nil fields are left untouched.
type Patch struct {
	Amount      *core.Money
	Category    *string
	Description *string
	Date        *core.Date
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil
}

// Apply merges the patch into e and stamps the update time.
func (p Patch) Apply(e *core.Expense, now time.Time) {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	e.UpdatedAt = now
}

// Creator persists a new record and returns its store-assigned ID.
type Creator interface {
	Create(ctx context.Context, e core.Expense) (string, error)
}

// Lister returns every record of a user, most recent date first.
type Lister interface {
	ListForUser(ctx context.Context, userID string) ([]core.Expense, error)
}

// Getter fetches a single record by ID.
type Getter interface {
	Get(ctx context.Context, id string) (core.Expense, error)
}

// Updater merges a patch into an existing record.
type Updater interface {
	Update(ctx context.Context, id string, p Patch) error
}

// Deleter removes a record.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Store is the full record store surface.
type Store interface {
	Creator
	Lister
	Getter
	Updater
	Deleter
}

// SortByDateDesc orders records by date, newest first, keeping the relative
// order of records on the same day stable by creation time.
func SortByDateDesc(list []core.Expense) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
