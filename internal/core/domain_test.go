package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{Date: "2026-01-15", Description: "ok", Amount: Money{Cents: 100}, Category: Food}
	assert.NoError(t, good.Validate())

	bads := []Expense{
		{Date: "15/01/2026", Description: "a", Amount: Money{Cents: 1}, Category: Food},
		{Date: "2026-01-15", Description: " ", Amount: Money{Cents: 1}, Category: Food},
		{Date: "2026-01-15", Description: "a", Amount: Money{Cents: 0}, Category: Food},
		{Date: "2026-01-15", Description: "a", Amount: Money{Cents: 1}, Category: "Travel"},
	}
	for i, e := range bads {
		assert.Error(t, e.Validate(), "case %d", i)
	}
}

func TestFrequencyNext(t *testing.T) {
	from := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, 24*time.Hour, Daily.Next(from).Sub(from))
	assert.Equal(t, 7*24*time.Hour, Weekly.Next(from).Sub(from))
	assert.Equal(t, time.Date(2026, 4, 10, 15, 4, 5, 0, time.UTC), Monthly.Next(from))
}

func TestFrequencyNextMonthlyRollsOver(t *testing.T) {
	jan31 := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), Monthly.Next(jan31))

	leap := time.Date(2028, 1, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2028, 3, 2, 9, 0, 0, 0, time.UTC), Monthly.Next(leap))
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{Daily, Weekly, Monthly} {
		assert.True(t, f.Valid(), f)
	}
	assert.False(t, Frequency("yearly").Valid())
	assert.False(t, Frequency("").Valid())
}

func TestCategoryTotalsIncludesEmptyCategories(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 500}, Category: Food},
		{Amount: Money{Cents: 250}, Category: Food},
		{Amount: Money{Cents: 1000}, Category: Bills},
	}
	totals := CategoryTotals(expenses)
	assert.Len(t, totals, len(Categories))
	assert.Equal(t, int64(750), totals[Food])
	assert.Equal(t, int64(0), totals[Shopping])
	assert.Equal(t, int64(1750), GrandTotal(expenses))
	assert.Equal(t, 2, CategoryCounts(expenses)[Food])
}

func TestPercentageZeroWhole(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.InDelta(t, 25.0, Percentage(1, 4), 1e-9)
}
