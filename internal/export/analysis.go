package export

import (
	"bytes"
	"encoding/json"
	"time"

	"exporthub/internal/core"
)

// isoMillis matches the millisecond ISO-8601 timestamps used across exports.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type categoryAnalysis struct {
	GeneratedAt   string          `json:"generatedAt"`
	TotalExpenses float64         `json:"totalExpenses"`
	Categories    []categoryStats `json:"categories"`
}

type categoryStats struct {
	Category       core.Category `json:"category"`
	Total          float64       `json:"total"`
	Count          int           `json:"count"`
	Percentage     float64       `json:"percentage"`
	AvgTransaction float64       `json:"avgTransaction"`
}

// CategoryAnalysis renders the per-category JSON document. Money values are in
// major units.
func CategoryAnalysis(expenses []core.Expense, now time.Time) string {
	totals := core.CategoryTotals(expenses)
	counts := core.CategoryCounts(expenses)
	grand := core.GrandTotal(expenses)

	doc := categoryAnalysis{
		GeneratedAt:   now.UTC().Format(isoMillis),
		TotalExpenses: core.Money{Cents: grand}.Major(),
		Categories:    make([]categoryStats, 0, len(core.Categories)),
	}
	for _, cat := range core.Categories {
		stats := categoryStats{
			Category:   cat,
			Total:      core.Money{Cents: totals[cat]}.Major(),
			Count:      counts[cat],
			Percentage: core.Percentage(totals[cat], grand),
		}
		if stats.Count > 0 {
			stats.AvgTransaction = float64(totals[cat]) / float64(stats.Count) / 100
		}
		doc.Categories = append(doc.Categories, stats)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding plain structs of strings and numbers cannot fail.
	_ = enc.Encode(doc)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
