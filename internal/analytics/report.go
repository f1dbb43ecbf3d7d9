package analytics

import (
	"time"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// SummaryStats are the headline figures of the analytics tab.
type SummaryStats struct {
	Total core.Money
	Count int
	// Average is Total divided by the number of records, not by the number
	// of days in the window.
	Average     core.Money
	TopCategory string
	HasTop      bool
}

// Summarize computes total, per-record average and the top category.
func Summarize(records []core.Expense) SummaryStats {
	stats := SummaryStats{Count: len(records), TopCategory: NoTopCategoryText}
	if len(records) == 0 {
		return stats
	}
	for _, r := range records {
		stats.Total = stats.Total.Add(r.Amount)
	}
	stats.Average.Cents = decimal.NewFromInt(stats.Total.Cents).
		Div(decimal.NewFromInt(int64(len(records)))).
		Round(0).IntPart()

	chart := CategoryTotals(records)
	stats.TopCategory = chart.Slices[0].Label
	stats.HasTop = true
	return stats
}

// Report bundles every derived view for one window.
type Report struct {
	Window      core.Window
	WindowStart core.Date
	GeneratedAt time.Time
	Stats       SummaryStats
	Categories  CategoryChart
	Trend       Series
	Daily       DailySeries
}

// Build filters records to the window and derives all series from the result.
func Build(records []core.Expense, w core.Window, now time.Time) Report {
	filtered := Filter(records, w, now)
	return Report{
		Window:      w,
		WindowStart: w.Start(now),
		GeneratedAt: now,
		Stats:       Summarize(filtered),
		Categories:  CategoryTotals(filtered),
		Trend:       MonthlyTrend(filtered),
		Daily:       DailySpending(filtered, now),
	}
}

// View holds one fetched record list and recomputes the report whenever the
// window changes, without going back to the store.
type View struct {
	records []core.Expense
	window  core.Window
	now     func() time.Time
	report  Report
}

// NewView builds a view over records with the default window.
func NewView(records []core.Expense, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	v := &View{records: records, now: now}
	v.SetWindow(core.DefaultWindow)
	return v
}

// SetWindow switches the window and recomputes the report.
func (v *View) SetWindow(w core.Window) Report {
	v.window = w
	v.report = Build(v.records, w, v.now())
	return v.report
}

// Window returns the active window.
func (v *View) Window() core.Window { return v.window }

// Report returns the last computed report.
func (v *View) Report() Report { return v.report }
