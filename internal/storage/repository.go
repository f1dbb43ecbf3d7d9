// Package storage is the SQLite-backed record store used for single-node
// deployments.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/records"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := migrateUp(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Create(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	ts := r.now().UTC().Format(timestampLayout)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, amount_cents, category, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.UserID, e.Amount.Cents, e.Category, e.Description, e.Date.String(), ts, ts)
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", id,
		"user_id", e.UserID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return id, nil
}

const selectColumns = `id, user_id, amount_cents, category, description, date, created_at, updated_at`

func (r *SQLiteRepository) ListForUser(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM expenses WHERE user_id = ? ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, records.ErrNotFound
	}
	return e, err
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, p records.Patch) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Apply(&current, r.now().UTC())
	if err := current.Validate(); err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []any{current.UpdatedAt.Format(timestampLayout)}
	if p.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, current.Amount.Cents)
	}
	if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, current.Category)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, current.Description)
	}
	if p.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, current.Date.String())
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE expenses SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e                  core.Expense
		date, created, upd string
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &e.Description, &date, &created, &upd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scan expense: %w", err)
	}
	var err error
	if e.Date, err = core.ParseDate(date); err != nil {
		return e, fmt.Errorf("parse date %q: %w", date, err)
	}
	if e.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
		return e, fmt.Errorf("parse created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(timestampLayout, upd); err != nil {
		return e, fmt.Errorf("parse updated_at: %w", err)
	}
	return e, nil
}
