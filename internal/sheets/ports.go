// Package sheets defines the outbound port used to mirror expense records
// into a spreadsheet.
package sheets

import (
	"context"

	"expensetracker/internal/core"
)

// RecordExporter keeps one spreadsheet row per record, keyed by record ID.
type RecordExporter interface {
	// Upsert writes the record's row, appending it when the ID is new.
	Upsert(ctx context.Context, e core.Expense) (rowRef string, err error)
	// Remove clears the row holding id. Unknown IDs are not an error.
	Remove(ctx context.Context, id string) error
}

// Header is the first row of an export sheet.
var Header = []string{"ID", "User", "Date", "Category", "Description", "Amount", "Updated"}

// Row renders a record in Header column order.
func Row(e core.Expense) []any {
	return []any{
		e.ID,
		e.UserID,
		e.Date.String(),
		e.Category,
		e.Description,
		e.Amount.Decimal().StringFixed(2),
		e.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
