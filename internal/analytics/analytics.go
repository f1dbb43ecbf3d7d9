// Package analytics derives the chart series and summary figures shown on the
// analytics tab. Every function is a pure computation over an in-memory slice
// of records; nothing here talks to the store.
package analytics

import (
	"sort"
	"time"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

const (
	noDataLabel       = "No Data"
	noDataSliceLabel  = "No Data Available"
	noDataSliceColor  = "#e9ecef"
	NoTopCategoryText = "No Data"
)

var hundred = decimal.NewFromInt(100)

// Slice is one category's share of the pie chart.
type Slice struct {
	Label   string
	Icon    string
	Color   string
	Amount  core.Money
	Percent decimal.Decimal // share of the grand total, rounded to one decimal
}

// CategoryChart is the spending-by-category breakdown. When Empty is set the
// chart carries a single placeholder slice so it still renders.
type CategoryChart struct {
	Slices []Slice
	Total  core.Money
	Empty  bool
}

// Point is one bucket of the monthly trend.
type Point struct {
	Key    string // YYYY-MM
	Label  string // e.g. "Jan 2025"
	Amount core.Money
}

// Series is the monthly trend, ordered by month ascending.
type Series struct {
	Points []Point
	Empty  bool
}

// Filter keeps the records whose date falls in the window ending at now.
func Filter(records []core.Expense, w core.Window, now time.Time) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Date, now) {
			out = append(out, r)
		}
	}
	return out
}

// CategoryTotals sums records by category. Slices are ordered by amount
// descending, ties broken by label.
func CategoryTotals(records []core.Expense) CategoryChart {
	if len(records) == 0 {
		return CategoryChart{
			Empty: true,
			Slices: []Slice{{
				Label:   noDataSliceLabel,
				Color:   noDataSliceColor,
				Amount:  core.Money{Cents: 100},
				Percent: hundred,
			}},
		}
	}

	sums := make(map[string]int64)
	var total int64
	for _, r := range records {
		sums[r.Category] += r.Amount.Cents
		total += r.Amount.Cents
	}

	slices := make([]Slice, 0, len(sums))
	for label, cents := range sums {
		style := core.CategoryStyle(label)
		slices = append(slices, Slice{
			Label:   label,
			Icon:    style.Icon,
			Color:   style.Color,
			Amount:  core.Money{Cents: cents},
			Percent: share(cents, total),
		})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Amount.Cents != slices[j].Amount.Cents {
			return slices[i].Amount.Cents > slices[j].Amount.Cents
		}
		return slices[i].Label < slices[j].Label
	})

	return CategoryChart{Slices: slices, Total: core.Money{Cents: total}}
}

func share(part, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(total)).Round(1)
}

// MonthlyTrend sums records by calendar month.
func MonthlyTrend(records []core.Expense) Series {
	if len(records) == 0 {
		return Series{Empty: true, Points: []Point{{Label: noDataLabel}}}
	}

	sums := make(map[string]int64)
	labels := make(map[string]string)
	for _, r := range records {
		key := r.Date.MonthKey()
		sums[key] += r.Amount.Cents
		if _, ok := labels[key]; !ok {
			labels[key] = r.Date.Format("Jan 2006")
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]Point, len(keys))
	for i, k := range keys {
		points[i] = Point{Key: k, Label: labels[k], Amount: core.Money{Cents: sums[k]}}
	}
	return Series{Points: points}
}
