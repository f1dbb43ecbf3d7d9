package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/records"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type expenseDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	AmountCents int64     `bson:"amountCents"`
	Category    string    `bson:"category"`
	Description string    `bson:"description"`
	Date        string    `bson:"date"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toDocument(e core.Expense) expenseDocument {
	return expenseDocument{
		ID:          e.ID,
		UserID:      e.UserID,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (d expenseDocument) toExpense() (core.Expense, error) {
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("document %s has bad date %q: %w", d.ID, d.Date, err)
	}
	return core.Expense{
		ID:          d.ID,
		UserID:      d.UserID,
		Amount:      core.Money{Cents: d.AmountCents},
		Category:    d.Category,
		Description: d.Description,
		Date:        date,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// Repository implements records.Store on top of a DataStore.
type Repository struct {
	store DataStore
	now   func() time.Time
}

func NewRepository(store DataStore) *Repository {
	return &Repository{store: store, now: time.Now}
}

// Ping checks that the server is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) Create(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	// Mongo stores millisecond precision.
	ts := r.now().UTC().Truncate(time.Millisecond)
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = ts, ts
	if err := r.store.InsertOne(ctx, toDocument(e)); err != nil {
		return "", err
	}
	return e.ID, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]core.Expense, error) {
	docs, err := r.store.FindMany(ctx,
		bson.M{"userId": userID},
		bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(docs))
	for _, d := range docs {
		e, err := d.toExpense()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Expense, error) {
	doc, err := r.store.FindOne(ctx, bson.M{"_id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Expense{}, records.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("failed to perform FindOne: %w", err)
	}
	return doc.toExpense()
}

func (r *Repository) Update(ctx context.Context, id string, p records.Patch) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Apply(&current, r.now().UTC().Truncate(time.Millisecond))
	if err := current.Validate(); err != nil {
		return err
	}

	set := bson.M{"updatedAt": current.UpdatedAt}
	if p.Amount != nil {
		set["amountCents"] = current.Amount.Cents
	}
	if p.Category != nil {
		set["category"] = current.Category
	}
	if p.Description != nil {
		set["description"] = current.Description
	}
	if p.Date != nil {
		set["date"] = current.Date.String()
	}

	matched, err := r.store.UpdateOne(ctx, bson.M{"_id": id}, set)
	if err != nil {
		return err
	}
	if matched == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	deleted, err := r.store.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return records.ErrNotFound
	}
	return nil
}
