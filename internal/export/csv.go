package export

import (
	"strings"

	"exporthub/internal/core"
)

const csvHeader = "Date,Amount,Category,Description"

// CSV serializes expenses with a header row and one row per record. Only the
// description is ever quoted.
func CSV(expenses []core.Expense) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	for _, e := range expenses {
		b.WriteByte('\n')
		b.WriteString(e.Date)
		b.WriteByte(',')
		b.WriteString(e.Amount.Decimal())
		b.WriteByte(',')
		b.WriteString(string(e.Category))
		b.WriteByte(',')
		b.WriteString(escapeCSV(e.Description))
	}
	return b.String()
}

func escapeCSV(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
