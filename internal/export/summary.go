package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"exporthub/internal/core"
)

const (
	summaryWidth = 40
	topExpenses  = 5
)

// Summary renders the fixed-width plain-text report.
func Summary(expenses []core.Expense, now time.Time) string {
	totals := core.CategoryTotals(expenses)
	grand := core.GrandTotal(expenses)

	lines := []string{
		"EXPENSE SUMMARY REPORT",
		strings.Repeat("=", summaryWidth),
		"Generated: " + now.Format("Monday, January 2, 2006"),
		fmt.Sprintf("Total Records: %d", len(expenses)),
		"Grand Total: " + core.Money{Cents: grand}.String(),
		"",
		"BREAKDOWN BY CATEGORY",
		strings.Repeat("-", summaryWidth),
	}
	for _, cat := range core.Categories {
		amt := totals[cat]
		lines = append(lines, fmt.Sprintf("  %-18s $%10s  (%s%%)",
			cat, core.Money{Cents: amt}.Decimal(), formatPercent(core.Percentage(amt, grand))))
	}

	sorted := append([]core.Expense(nil), expenses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.Cents > sorted[j].Amount.Cents
	})
	if len(sorted) > topExpenses {
		sorted = sorted[:topExpenses]
	}

	lines = append(lines, "", "TOP 5 EXPENSES", strings.Repeat("-", summaryWidth))
	for _, e := range sorted {
		lines = append(lines, fmt.Sprintf("  %s  $%8s  %-16s %s",
			e.Date, e.Amount.Decimal(), e.Category, e.Description))
	}
	return strings.Join(lines, "\n")
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}
