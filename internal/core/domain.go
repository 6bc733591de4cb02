package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used by expense records.
const DateLayout = "2006-01-02"

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Bills          Category = "Bills"
	Other          Category = "Other"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

type (
	Category string

	// Frequency is the repetition unit of an export schedule.
	Frequency string

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          string    `json:"id"`
		Date        string    `json:"date"` // YYYY-MM-DD
		Amount      Money     `json:"amount"`
		Category    Category  `json:"category"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
	}
)

// Categories is the ordered category list every per-category report walks.
var Categories = []Category{Food, Transportation, Entertainment, Shopping, Bills, Other}

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// Next returns the instant exactly one frequency unit after from.
//
// Monthly arithmetic uses time.AddDate, which normalizes overflow instead of
// clamping: Jan 31 + 1 month is Mar 3 (Mar 2 in leap years). Everything is
// computed in UTC so a day is always 24 hours.
func (f Frequency) Next(from time.Time) time.Time {
	from = from.UTC()
	switch f {
	case Daily:
		return from.Add(24 * time.Hour)
	case Weekly:
		return from.Add(7 * 24 * time.Hour)
	default:
		return from.AddDate(0, 1, 0)
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}
