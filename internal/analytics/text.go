package analytics

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText renders a report as plain text for terminal output.
func WriteText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Window:\t%s (since %s)\n", r.Window.Label(), r.WindowStart)
	fmt.Fprintf(tw, "Total spending:\t%s\n", r.Stats.Total)
	fmt.Fprintf(tw, "Avg per expense:\t%s\n", r.Stats.Average)
	fmt.Fprintf(tw, "Expenses:\t%d\n", r.Stats.Count)
	fmt.Fprintf(tw, "Top category:\t%s\n", r.Stats.TopCategory)

	fmt.Fprintln(tw, "\nBy category")
	if r.Categories.Empty {
		fmt.Fprintln(tw, "  (no expenses in this window)")
	} else {
		for _, s := range r.Categories.Slices {
			fmt.Fprintf(tw, "  %s %s\t%s\t%s%%\n", s.Icon, s.Label, s.Amount, s.Percent.StringFixed(1))
		}
	}

	fmt.Fprintln(tw, "\nBy month")
	for _, p := range r.Trend.Points {
		fmt.Fprintf(tw, "  %s\t%s\n", p.Label, p.Amount)
	}

	fmt.Fprintf(tw, "\n%s\n", r.Daily.Month)
	for _, d := range r.Daily.Days {
		if d.Amount.Cents == 0 {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", d.Label, d.Amount, strings.Repeat("#", barWidth(d.Amount.Cents, r.Daily.Max.Cents)))
	}

	return tw.Flush()
}

func barWidth(v, max int64) int {
	const width = 30
	if max <= 0 || v <= 0 {
		return 0
	}
	n := int(v * width / max)
	if n == 0 {
		n = 1
	}
	return n
}
