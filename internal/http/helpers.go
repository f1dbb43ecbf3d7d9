package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// sanitizeInput removes control characters (except tab and newlines) and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// barPercent scales v against max to a CSS width in percent. Non-zero values
// are kept at least 2% wide so they stay visible.
func barPercent(v, max int64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	width := int((v*100 + max/2) / max)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var templateFuncs = template.FuncMap{
	"money":    func(m core.Money) string { return m.String() },
	"pct":      func(d decimal.Decimal) string { return d.StringFixed(1) },
	"currency": func() string { return core.CurrencySymbol },
	"initial": func(name string) string {
		for _, r := range name {
			return strings.ToUpper(string(r))
		}
		return "?"
	},
}
