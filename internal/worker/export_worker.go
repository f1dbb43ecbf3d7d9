// Package worker mirrors record changes into a spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/metrics"
	"expensetracker/internal/records"
	"expensetracker/internal/sheets"
)

// Source is what the worker reads records from.
type Source interface {
	records.Getter
	records.Lister
}

// ExportWorker applies change events to a RecordExporter.
type ExportWorker struct {
	source   Source
	exporter sheets.RecordExporter
	logger   *slog.Logger
}

func NewExportWorker(source Source, exporter sheets.RecordExporter, logger *slog.Logger) *ExportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{source: source, exporter: exporter, logger: logger}
}

// HandleChange processes one change event. Created and updated records are
// fetched and upserted; a record deleted before its create event is handled
// is treated as removed.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ExpenseChangeMessage) error {
	err := w.handle(ctx, msg)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ExportedEvents.WithLabelValues(string(msg.Op), result).Inc()
	return err
}

func (w *ExportWorker) handle(ctx context.Context, msg *amqp.ExpenseChangeMessage) error {
	w.logger.DebugContext(ctx, "Processing change event", "id", msg.ID, "op", msg.Op)

	if msg.Op == amqp.OpDeleted {
		if err := w.exporter.Remove(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove exported row: %w", err)
		}
		w.logger.InfoContext(ctx, "Removed exported record", "id", msg.ID)
		return nil
	}

	e, err := w.source.Get(ctx, msg.ID)
	if errors.Is(err, records.ErrNotFound) {
		w.logger.WarnContext(ctx, "Record vanished before export, removing row", "id", msg.ID, "op", msg.Op)
		return w.exporter.Remove(ctx, msg.ID)
	}
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}

	ref, err := w.exporter.Upsert(ctx, e)
	if err != nil {
		return fmt.Errorf("upsert exported row: %w", err)
	}
	w.logger.InfoContext(ctx, "Exported record", "id", e.ID, "op", msg.Op, "row", ref)
	return nil
}

// Backfill exports every record of a user, stopping at the first failure.
func (w *ExportWorker) Backfill(ctx context.Context, userID string) (int, error) {
	list, err := w.source.ListForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}
	for i, e := range list {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := w.exporter.Upsert(ctx, e); err != nil {
			return i, fmt.Errorf("export %s: %w", e.ID, err)
		}
	}
	w.logger.InfoContext(ctx, "Backfill complete", "user_id", userID, "count", len(list))
	return len(list), nil
}
