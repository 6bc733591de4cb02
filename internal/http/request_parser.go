package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"exporthub/internal/core"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeJSON reads a single JSON object into v, rejecting unknown fields.
// An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

type expenseRequest struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// toExpense converts the request, parsing a decimal amount such as "12.50".
func (req expenseRequest) toExpense() (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: %v", core.ErrInvalidAmount, err)
	}
	e := core.Expense{
		Date:        strings.TrimSpace(req.Date),
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(sanitizeInput(req.Category)),
		Description: sanitizeInput(req.Description),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

type scheduleRequest struct {
	TemplateID  string `json:"templateId"`
	Frequency   string `json:"frequency"`
	Destination string `json:"destination"`
}

// sendRequest selects the delivery: one service, an email address, or every
// connected service when Broadcast is set.
type sendRequest struct {
	Service   string `json:"service"`
	Address   string `json:"address"`
	Broadcast bool   `json:"broadcast"`
}
