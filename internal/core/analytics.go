package core

// CategoryTotals aggregates spend in cents for every category, including
// categories without records.
func CategoryTotals(expenses []Expense) map[Category]int64 {
	totals := make(map[Category]int64, len(Categories))
	for _, c := range Categories {
		totals[c] = 0
	}
	for _, e := range expenses {
		totals[e.Category] += e.Amount.Cents
	}
	return totals
}

// CategoryCounts returns the number of records per category.
func CategoryCounts(expenses []Expense) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, e := range expenses {
		counts[e.Category]++
	}
	return counts
}

// GrandTotal sums all amounts in cents.
func GrandTotal(expenses []Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Amount.Cents
	}
	return total
}

// Percentage returns part as a percentage of whole, or 0 when whole is zero.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
