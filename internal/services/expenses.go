package services

import (
	"context"
	"fmt"

	"exporthub/internal/core"
	"exporthub/internal/storage"
)

// ExpenseStore is the minimal expense collection the export engine reads
// from. Full expense management lives outside this module.
type ExpenseStore struct {
	store storage.BlobStore
	clock Clock
	newID IDSource
}

func NewExpenseStore(store storage.BlobStore, clock Clock, ids IDSource) *ExpenseStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = NewUUID
	}
	return &ExpenseStore{store: store, clock: clock, newID: ids}
}

// List returns all stored expenses; an absent or malformed blob is empty.
func (s *ExpenseStore) List(ctx context.Context) []core.Expense {
	var all []core.Expense
	storage.LoadJSON(ctx, s.store, storage.ExpensesKey, &all)
	if all == nil {
		all = []core.Expense{}
	}
	return all
}

// Add validates and appends an expense, assigning id and creation time.
func (s *ExpenseStore) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	e.ID = s.newID()
	e.CreatedAt = s.clock.Now()

	all := append(s.List(ctx), e)
	if err := storage.SaveJSON(ctx, s.store, storage.ExpensesKey, all); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	return e, nil
}
