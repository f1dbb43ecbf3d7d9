package core

import "time"

// Window is the look-back period used by the analytics view.
type Window string

const (
	Window1Month  Window = "1month"
	Window3Months Window = "3months"
	Window6Months Window = "6months"
	Window1Year   Window = "1year"

	DefaultWindow = Window6Months
)

var windows = []Window{Window1Month, Window3Months, Window6Months, Window1Year}

// Windows lists the selectable windows in display order.
func Windows() []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

// ParseWindow maps a query value to a Window, returning DefaultWindow for
// anything unrecognised.
func ParseWindow(s string) Window {
	for _, w := range windows {
		if string(w) == s {
			return w
		}
	}
	return DefaultWindow
}

func (w Window) months() int {
	switch w {
	case Window1Month:
		return 1
	case Window3Months:
		return 3
	case Window1Year:
		return 12
	default:
		return 6
	}
}

// Label is the human readable name of the window.
func (w Window) Label() string {
	switch w {
	case Window1Month:
		return "Last Month"
	case Window3Months:
		return "Last 3 Months"
	case Window1Year:
		return "Last Year"
	default:
		return "Last 6 Months"
	}
}

// Start returns the first calendar day included in the window ending at now.
// The day of month is clamped so that e.g. 31 May minus three months is
// 28 or 29 February rather than rolling into March.
func (w Window) Start(now time.Time) Date {
	y, m, d := now.Date()
	target := time.Date(y, m-time.Month(w.months()), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysInMonth(target.Year(), target.Month()); d > last {
		d = last
	}
	return NewDate(target.Year(), int(target.Month()), d)
}

// Contains reports whether day falls inside the window ending at now.
func (w Window) Contains(day Date, now time.Time) bool {
	return !day.Before(w.Start(now))
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
