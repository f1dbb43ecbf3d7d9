package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire and form representation of a calendar day.
const DateLayout = "2006-01-02"

// MaxDescriptionLength bounds the optional free-text note on an expense.
const MaxDescriptionLength = 200

type (
	// Date is a calendar day. The time component is always UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single spending record owned by one user.
	Expense struct {
		ID          string
		UserID      string
		Amount      Money
		Category    string
		Description string
		Date        Date
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingDate        = errors.New("missing date")
	ErrEmptyCategory      = errors.New("empty category")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrMissingUser        = errors.New("missing user id")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the day as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM bucket the day falls in.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidDescription reports whether s fits the description limit.
func ValidDescription(s string) bool {
	return utf8.RuneCountInString(s) <= MaxDescriptionLength
}

// Validate checks the record invariants. IDs and timestamps are assigned by
// the store and are not checked here.
func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if _, ok := LookupCategory(e.Category); !ok {
		return ErrUnknownCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !ValidDescription(e.Description) {
		return ErrDescriptionTooLong
	}
	return nil
}
