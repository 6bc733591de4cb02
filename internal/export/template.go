// Package export holds the immutable report template registry and the pure
// generators that turn expenses into CSV, JSON and plain-text artifacts.
package export

import (
	"errors"
	"time"

	"exporthub/internal/core"
)

// Format is the artifact format a template produces.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// FilterKind selects the record filter a template applies before generation.
type FilterKind int

const (
	FilterNone FilterKind = iota
	// FilterTaxDeductible keeps Bills and Transportation records.
	FilterTaxDeductible
)

// Template describes a report. Templates carry no behaviour; Generate
// dispatches on Format.
type Template struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Format      Format     `json:"format"`
	Filter      FilterKind `json:"-"`
}

// Artifact is a generated report together with the metadata derived from the
// same filtered record set.
type Artifact struct {
	TemplateID  string     `json:"templateId"`
	Format      Format     `json:"format"`
	Filename    string     `json:"filename"`
	MediaType   string     `json:"mediaType"`
	Content     string     `json:"content"`
	RecordCount int        `json:"recordCount"`
	TotalAmount core.Money `json:"totalAmount"`
}

var ErrTemplateNotFound = errors.New("template not found")

// registry is enumerated once; ids are stable and never reused.
var registry = []Template{
	{
		ID:          "full-export",
		Name:        "Full Export",
		Description: "All expense data in spreadsheet format",
		Icon:        "📋",
		Format:      FormatCSV,
	},
	{
		ID:          "tax-report",
		Name:        "Tax Report",
		Description: "Bills & receipts formatted for tax filing",
		Icon:        "🏛️",
		Format:      FormatCSV,
		Filter:      FilterTaxDeductible,
	},
	{
		ID:          "monthly-summary",
		Name:        "Monthly Summary",
		Description: "High-level spending overview with totals",
		Icon:        "📈",
		Format:      FormatSummary,
	},
	{
		ID:          "category-analysis",
		Name:        "Category Analysis",
		Description: "Deep dive into spending by category",
		Icon:        "🔍",
		Format:      FormatJSON,
	},
}

// Templates returns a copy of the registry in display order.
func Templates() []Template {
	return append([]Template(nil), registry...)
}

// Lookup finds a template by id.
func Lookup(id string) (Template, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateName resolves an id to its display name, falling back to the raw id
// for references the registry no longer knows.
func TemplateName(id string) string {
	if t, ok := Lookup(id); ok {
		return t.Name
	}
	return id
}

// Extension is the file extension used for downloads.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// MediaType is the content type used for downloads.
func (f Format) MediaType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain"
	}
}

// Apply runs the template's filter. It returns the input slice unchanged when
// the template has no filter.
func Apply(t Template, expenses []core.Expense) []core.Expense {
	switch t.Filter {
	case FilterTaxDeductible:
		out := make([]core.Expense, 0, len(expenses))
		for _, e := range expenses {
			if e.Category == core.Bills || e.Category == core.Transportation {
				out = append(out, e)
			}
		}
		return out
	default:
		return expenses
	}
}

// Generate renders already-filtered expenses in the template's format. It does
// not apply the template filter; callers filter once with Apply and reuse the
// result for any count or total they report.
func Generate(t Template, expenses []core.Expense, now time.Time) string {
	switch t.Format {
	case FormatCSV:
		return CSV(expenses)
	case FormatJSON:
		return CategoryAnalysis(expenses, now)
	default:
		return Summary(expenses, now)
	}
}

// Prepare filters once and builds the artifact and its metadata from the same
// record set.
func Prepare(t Template, expenses []core.Expense, now time.Time) Artifact {
	filtered := Apply(t, expenses)
	return Artifact{
		TemplateID:  t.ID,
		Format:      t.Format,
		Filename:    t.ID + "." + t.Format.Extension(),
		MediaType:   t.Format.MediaType(),
		Content:     Generate(t, filtered, now),
		RecordCount: len(filtered),
		TotalAmount: core.Money{Cents: core.GrandTotal(filtered)},
	}
}
