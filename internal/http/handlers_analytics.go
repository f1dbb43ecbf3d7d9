package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/analytics"
	"expensetracker/internal/core"
)

type categoryRow struct {
	analytics.Slice
	Width int
}

type barRow struct {
	Label  string
	Amount core.Money
	Height int
	Color  string
}

type analyticsData struct {
	Window  core.Window
	Windows []core.Window
	Since   string
	Stats   analytics.SummaryStats

	Categories      []categoryRow
	CategoriesEmpty bool
	Pie             template.CSS

	Trend      []barRow
	TrendEmpty bool

	DailyMonth string
	DailyTotal core.Money
	Daily      []barRow

	Error string
}

const trendColor = "#6c5ce7"

// handleAnalytics fetches the user's records and renders the analytics
// partial for the requested window. Each call fetches again; a slow response
// for an earlier window may still land after a newer one.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	window := ParseWindowParam(r.URL.Query())
	res := s.expenses.ListForUser(r.Context(), identity(r).ID)
	if !res.Success {
		s.page(w, r, "analytics", analyticsData{
			Window:  window,
			Windows: core.Windows(),
			Error:   "Error loading analytics: " + res.Error,
		})
		return
	}

	view := analytics.NewView(res.Data, s.now)
	s.page(w, r, "analytics", newAnalyticsData(view.SetWindow(window)))
}

func newAnalyticsData(rep analytics.Report) analyticsData {
	data := analyticsData{
		Window:          rep.Window,
		Windows:         core.Windows(),
		Since:           rep.WindowStart.Format("Jan 2, 2006"),
		Stats:           rep.Stats,
		CategoriesEmpty: rep.Categories.Empty,
		Pie:             pieGradient(rep.Categories),
		TrendEmpty:      rep.Trend.Empty,
		DailyMonth:      rep.Daily.Month,
		DailyTotal:      rep.Daily.Total,
	}

	var top int64
	if len(rep.Categories.Slices) > 0 {
		top = rep.Categories.Slices[0].Amount.Cents
	}
	for _, sl := range rep.Categories.Slices {
		data.Categories = append(data.Categories, categoryRow{Slice: sl, Width: barPercent(sl.Amount.Cents, top)})
	}

	var trendMax int64
	for _, p := range rep.Trend.Points {
		trendMax = max(trendMax, p.Amount.Cents)
	}
	for _, p := range rep.Trend.Points {
		data.Trend = append(data.Trend, barRow{
			Label:  p.Label,
			Amount: p.Amount,
			Height: barPercent(p.Amount.Cents, trendMax),
			Color:  trendColor,
		})
	}

	for _, d := range rep.Daily.Days {
		data.Daily = append(data.Daily, barRow{
			Label:  d.Label,
			Amount: d.Amount,
			Height: barPercent(d.Amount.Cents, rep.Daily.Max.Cents),
			Color:  d.Intensity.Color(),
		})
	}
	return data
}

// pieGradient draws the category chart as a CSS conic gradient. The values
// come from the fixed category palette, never from user input.
func pieGradient(chart analytics.CategoryChart) template.CSS {
	if chart.Empty || len(chart.Slices) == 0 {
		color := "#e9ecef"
		if len(chart.Slices) > 0 {
			color = chart.Slices[0].Color
		}
		return template.CSS("background: conic-gradient(" + color + " 0% 100%)")
	}

	stops := make([]string, 0, len(chart.Slices))
	from := decimal.Zero
	for i, sl := range chart.Slices {
		to := from.Add(sl.Percent)
		if i == len(chart.Slices)-1 {
			to = decimal.NewFromInt(100)
		}
		stops = append(stops, fmt.Sprintf("%s %s%% %s%%", sl.Color, from.StringFixed(1), to.StringFixed(1)))
		from = to
	}
	return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
}
