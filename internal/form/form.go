// Package form models the expense entry form: raw user input, client-side
// validation and the submit lifecycle.
package form

import (
	"context"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/metrics"
	"expensetracker/internal/services"
)

// State is the lifecycle position of the form.
type State int

const (
	Editing State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "editing"
	}
}

// Field names, shared with the templates and the JSON API.
const (
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldDate        = "date"
)

const (
	MsgAmount      = "Amount must be greater than 0"
	MsgCategory    = "Please select a category"
	MsgBadCategory = "Please select a valid category"
	MsgDate        = "Please select a date"
	MsgDescription = "Description must be 200 characters or less"
	MsgSuccess     = "Expense added successfully!"
	failurePrefix  = "Error adding expense: "
)

// Values are the raw strings as typed by the user.
type Values struct {
	Amount      string
	Category    string
	Description string
	Date        string
}

// Errors maps a field name to its message.
type Errors map[string]string

// Creator is the store operation the form submits to.
type Creator interface {
	Create(ctx context.Context, userID string, e core.Expense) services.Result
}

// ExpenseForm holds one form instance. It is not safe for concurrent use;
// each request builds its own.
type ExpenseForm struct {
	Values  Values
	Errors  Errors
	State   State
	Message string
	// CreatedID is set after a successful submit.
	CreatedID string
}

// New returns an empty form with the date defaulted to today.
func New(now time.Time) *ExpenseForm {
	f := &ExpenseForm{}
	f.Reset(now)
	return f
}

// FromValues builds a form in Editing state from submitted input.
func FromValues(v Values) *ExpenseForm {
	return &ExpenseForm{
		Values: Values{
			Amount:      strings.TrimSpace(v.Amount),
			Category:    strings.TrimSpace(v.Category),
			Description: strings.TrimSpace(v.Description),
			Date:        strings.TrimSpace(v.Date),
		},
		Errors: Errors{},
	}
}

// Reset clears input and errors and returns to Editing.
func (f *ExpenseForm) Reset(now time.Time) {
	f.Values = Values{Date: core.DateOf(now).String()}
	f.Errors = Errors{}
	f.State = Editing
	f.Message = ""
	f.CreatedID = ""
}

// Validate checks every field, filling Errors. It does not change State.
func (f *ExpenseForm) Validate() bool {
	f.Errors = Errors{}
	if cents, err := core.ParseDecimalToCents(f.Values.Amount); err != nil || cents <= 0 {
		f.Errors[FieldAmount] = MsgAmount
	}
	switch {
	case f.Values.Category == "":
		f.Errors[FieldCategory] = MsgCategory
	default:
		if _, ok := core.LookupCategory(f.Values.Category); !ok {
			f.Errors[FieldCategory] = MsgBadCategory
		}
	}
	if _, err := core.ParseDate(f.Values.Date); err != nil {
		f.Errors[FieldDate] = MsgDate
	}
	if !core.ValidDescription(f.Values.Description) {
		f.Errors[FieldDescription] = MsgDescription
	}
	return len(f.Errors) == 0
}

// Expense converts validated input to a record. Call only after Validate.
func (f *ExpenseForm) Expense() core.Expense {
	cents, _ := core.ParseDecimalToCents(f.Values.Amount)
	date, _ := core.ParseDate(f.Values.Date)
	return core.Expense{
		Amount:      core.Money{Cents: cents},
		Category:    f.Values.Category,
		Description: f.Values.Description,
		Date:        date,
	}
}

// Submit validates and, when the input is valid, calls Create exactly once.
// Invalid input leaves the form in Editing with field errors. On success the
// form is cleared to defaults; on failure the input is kept.
func (f *ExpenseForm) Submit(ctx context.Context, c Creator, userID string, now time.Time) State {
	if f.State == Submitting {
		return f.State
	}
	if !f.Validate() {
		metrics.FormSubmissions.WithLabelValues("invalid").Inc()
		f.State = Editing
		return f.State
	}

	f.State = Submitting
	res := c.Create(ctx, userID, f.Expense())
	if !res.Success {
		metrics.FormSubmissions.WithLabelValues("failed").Inc()
		f.State = Failed
		f.Message = failurePrefix + res.Error
		return f.State
	}

	metrics.FormSubmissions.WithLabelValues("success").Inc()
	f.Reset(now)
	f.State = Success
	f.Message = MsgSuccess
	f.CreatedID = res.ID
	return f.State
}

// Settle moves a finished submission back to Editing, keeping the message
// for one render.
func (f *ExpenseForm) Settle() {
	if f.State == Success || f.State == Failed {
		f.State = Editing
	}
}

// Error returns the message for field, if any.
func (f *ExpenseForm) Error(field string) string {
	return f.Errors[field]
}

// Categories lists the selectable categories for the template.
func (f *ExpenseForm) Categories() []core.Category {
	return core.Categories()
}
