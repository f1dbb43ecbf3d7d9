// Package memory is an in-process RecordExporter that keeps exported rows in
// insertion order. It backs the export worker when no spreadsheet is
// configured and doubles as a test fake.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/sheets"
)

type Exporter struct {
	mu    sync.Mutex
	rows  [][]any
	index map[string]int
}

var _ sheets.RecordExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{index: make(map[string]int)}
}

// Upsert replaces the record's row or appends a new one.
func (x *Exporter) Upsert(_ context.Context, e core.Expense) (string, error) {
	if e.ID == "" {
		return "", fmt.Errorf("cannot export record without id")
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if i, ok := x.index[e.ID]; ok {
		x.rows[i] = sheets.Row(e)
		return fmt.Sprintf("mem:%d", i+1), nil
	}
	x.rows = append(x.rows, sheets.Row(e))
	x.index[e.ID] = len(x.rows) - 1
	return fmt.Sprintf("mem:%d", len(x.rows)), nil
}

// Remove blanks the record's row, keeping the positions of later rows.
func (x *Exporter) Remove(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if i, ok := x.index[id]; ok {
		x.rows[i] = nil
		delete(x.index, id)
	}
	return nil
}

// Rows returns a copy of the non-blank rows.
func (x *Exporter) Rows() [][]any {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([][]any, 0, len(x.index))
	for _, r := range x.rows {
		if r != nil {
			out = append(out, append([]any(nil), r...))
		}
	}
	return out
}
