package cli

import (
	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/editor"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// printSummary renders one row per day and a totals line.
func printSummary(w io.Writer, p domain.Plan, sum editor.Summary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintf(w, "%s (%s)\n", p.Name, p.Schema)

	nutrition := p.Schema == domain.SchemaNutrition
	tbl := uitable.New()
	tbl.Separator = "  "
	if nutrition {
		tbl.AddRow(bold.Sprint("#"), bold.Sprint("Day"), bold.Sprint("Done"), bold.Sprint("Progress"), bold.Sprint("kcal"), bold.Sprint("P/C/F"))
	} else {
		tbl.AddRow(bold.Sprint("#"), bold.Sprint("Day"), bold.Sprint("Done"), bold.Sprint("Progress"), bold.Sprint("Volume"))
	}

	for i, d := range sum.Days {
		name := d.Name
		if d.Kind.IsOff() {
			name = faint.Sprintf("%s (%s)", d.Name, d.Kind)
		}
		row := []interface{}{
			i + 1,
			name,
			fmt.Sprintf("%d/%d", d.Progress.Done, d.Progress.Total),
			progressColor(d.Progress).Sprint(percent(d.Percent)),
		}
		if nutrition {
			row = append(row, fmt.Sprintf("%.0f", d.Macros.Calories),
				fmt.Sprintf("%.0f/%.0f/%.0f", d.Macros.Protein, d.Macros.Carbs, d.Macros.Fats))
		} else {
			row = append(row, fmt.Sprintf("%.0f", d.Volume))
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)

	_, _ = faint.Fprintf(w, "%d/%d items, %d/%d slots complete, %s overall\n",
		sum.CompletedItems, sum.TotalItems, sum.CompletedSlots, sum.TotalSlots, percent(sum.Percent))
}

func progressColor(c editor.Completion) *color.Color {
	switch {
	case c.Total == 0:
		return color.New(color.Faint)
	case c.Full():
		return color.New(color.FgGreen)
	case c.Done > 0:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
