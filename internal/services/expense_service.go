// Package services turns record store calls into results the presentation
// layer can render without handling raw errors.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/metrics"
	"expensetracker/internal/records"
)

// Result is the outcome of one store operation. On failure Error carries the
// store's message verbatim.
type Result struct {
	Success bool
	ID      string
	Data    []core.Expense
	Error   string

	err error
}

// Err returns the underlying error for status mapping, nil on success.
func (r Result) Err() error { return r.err }

// NotFound reports whether the operation failed because the record is absent.
func (r Result) NotFound() bool { return errors.Is(r.err, records.ErrNotFound) }

// Invalid reports whether the store rejected the record's contents.
func (r Result) Invalid() bool {
	for _, target := range []error{
		core.ErrInvalidAmount, core.ErrEmptyCategory, core.ErrUnknownCategory,
		core.ErrMissingDate, core.ErrDescriptionTooLong, core.ErrMissingUser,
	} {
		if errors.Is(r.err, target) {
			return true
		}
	}
	return false
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), err: err}
}

// Publisher announces record changes to other processes.
type Publisher interface {
	PublishExpenseChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error
}

// ExpenseService is the record store client used by the UI and API.
type ExpenseService struct {
	store     records.Store
	publisher Publisher
	logger    *slog.Logger
}

// NewExpenseService wires the store and an optional publisher.
func NewExpenseService(store records.Store, publisher Publisher, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{store: store, publisher: publisher, logger: logger}
}

// Create stores a new record for userID. The ID, owner and timestamps of e
// are ignored; the store assigns them.
func (s *ExpenseService) Create(ctx context.Context, userID string, e core.Expense) Result {
	if userID == "" {
		return failure(core.ErrMissingUser)
	}
	e.ID = ""
	e.UserID = userID

	start := time.Now()
	id, err := s.store.Create(ctx, e)
	metrics.ObserveStore("create", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create expense", "user_id", userID, "error", err)
		return failure(err)
	}

	s.publish(ctx, id, userID, amqp.OpCreated)
	return Result{Success: true, ID: id}
}

// ListForUser returns every record of userID, newest date first.
func (s *ExpenseService) ListForUser(ctx context.Context, userID string) Result {
	if userID == "" {
		return failure(core.ErrMissingUser)
	}
	start := time.Now()
	list, err := s.store.ListForUser(ctx, userID)
	metrics.ObserveStore("list", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list expenses", "user_id", userID, "error", err)
		return failure(err)
	}
	return Result{Success: true, Data: list}
}

// Update applies a patch to one of userID's records.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, p records.Patch) Result {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return failure(err)
	}
	start := time.Now()
	err := s.store.Update(ctx, id, p)
	metrics.ObserveStore("update", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update expense", "id", id, "error", err)
		return failure(err)
	}
	s.publish(ctx, id, userID, amqp.OpUpdated)
	return Result{Success: true, ID: id}
}

// Delete removes one of userID's records.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) Result {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return failure(err)
	}
	start := time.Now()
	err := s.store.Delete(ctx, id)
	metrics.ObserveStore("delete", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete expense", "id", id, "error", err)
		return failure(err)
	}
	s.publish(ctx, id, userID, amqp.OpDeleted)
	return Result{Success: true, ID: id}
}

// checkOwner hides other users' records behind ErrNotFound.
func (s *ExpenseService) checkOwner(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrMissingUser
	}
	start := time.Now()
	e, err := s.store.Get(ctx, id)
	metrics.ObserveStore("get", start, err)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return records.ErrNotFound
	}
	return nil
}

// Ping reports whether the store is reachable, for readiness checks.
func (s *ExpenseService) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, id, userID string, op amqp.ChangeOp) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseChange(ctx, amqp.NewExpenseChangeMessage(id, userID, op)); err != nil {
		// The write already succeeded; the export catches up on the next backfill.
		s.logger.WarnContext(ctx, "Failed to publish change event", "id", id, "op", op, "error", err)
	}
}
