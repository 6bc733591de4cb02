package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporthub/internal/core"
	"exporthub/internal/storage/memory"
)

func TestExpenseAddAssignsIDAndTime(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseStore(memory.New(), newFakeClock(), seqIDs("e"))

	got, err := s.Add(ctx, core.Expense{
		Date:        "2026-02-01",
		Amount:      core.Money{Cents: 1250},
		Category:    core.Food,
		Description: "Lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, "e-1", got.ID)
	assert.Equal(t, testNow, got.CreatedAt)
	assert.Equal(t, []core.Expense{got}, s.List(ctx))
}

func TestExpenseAddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseStore(memory.New(), newFakeClock(), seqIDs("e"))

	_, err := s.Add(ctx, core.Expense{Date: "2026-02-01", Amount: core.Money{Cents: 0}, Category: core.Food, Description: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, s.List(ctx))
}
