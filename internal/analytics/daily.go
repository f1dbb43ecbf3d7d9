package analytics

import (
	"fmt"
	"time"

	"expensetracker/internal/core"
)

// Intensity buckets a day's total for colouring the daily bar chart.
type Intensity string

const (
	IntensityNone   Intensity = "none"
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

const (
	mediumThresholdCents = 20_00
	highThresholdCents   = 50_00
)

// Color returns the bar fill for the bucket.
func (i Intensity) Color() string {
	switch i {
	case IntensityHigh:
		return "#ff6b6b"
	case IntensityMedium:
		return "#ffeaa7"
	case IntensityLow:
		return "#96ceb4"
	default:
		return "rgba(196, 196, 196, 0.4)"
	}
}

func intensityOf(cents int64) Intensity {
	switch {
	case cents <= 0:
		return IntensityNone
	case cents > highThresholdCents:
		return IntensityHigh
	case cents > mediumThresholdCents:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

// DayPoint is one day of the current month.
type DayPoint struct {
	Day       int
	Label     string // e.g. "Mar 1"
	Amount    core.Money
	Intensity Intensity
}

// DailySeries covers every day of the month containing now.
type DailySeries struct {
	Month string // e.g. "March 2025"
	Days  []DayPoint
	Total core.Money
	Max   core.Money
}

// DailySpending builds a zero-filled per-day series for now's month. Records
// outside that month are ignored.
func DailySpending(records []core.Expense, now time.Time) DailySeries {
	year, month := now.Year(), now.Month()
	n := core.DaysInMonth(year, month)

	sums := make([]int64, n+1)
	for _, r := range records {
		if r.Date.Year() != year || time.Month(r.Date.Month()) != month {
			continue
		}
		sums[r.Date.Day()] += r.Amount.Cents
	}

	short := month.String()[:3]
	series := DailySeries{
		Month: fmt.Sprintf("%s %d", month, year),
		Days:  make([]DayPoint, n),
	}
	for day := 1; day <= n; day++ {
		cents := sums[day]
		series.Days[day-1] = DayPoint{
			Day:       day,
			Label:     fmt.Sprintf("%s %d", short, day),
			Amount:    core.Money{Cents: cents},
			Intensity: intensityOf(cents),
		}
		series.Total.Cents += cents
		if cents > series.Max.Cents {
			series.Max.Cents = cents
		}
	}
	return series
}
