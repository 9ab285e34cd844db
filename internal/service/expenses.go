package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/swamp-dev/eunoia/internal/aggregate"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// ExpenseService manages expenses.
type ExpenseService struct {
	base
	c *collection[model.Expense]
}

// List returns expenses, most recent date first.
func (s *ExpenseService) List(ctx context.Context, scope store.Scope) ([]model.Expense, error) {
	expenses, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	return expenses, nil
}

// InRange returns expenses dated within [start, end], most recent first.
func (s *ExpenseService) InRange(ctx context.Context, scope store.Scope, start, end time.Time) ([]model.Expense, error) {
	expenses, err := s.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return aggregate.FilterInRange(expenses, start, end, func(e model.Expense) time.Time { return e.Date }), nil
}

// Add stores a new expense. A zero date means now.
func (s *ExpenseService) Add(ctx context.Context, scope store.Scope, draft model.Expense) (model.Expense, error) {
	if draft.Date.IsZero() {
		draft.Date = s.clock.Now()
	}
	if err := validateExpense(&draft); err != nil {
		return model.Expense{}, err
	}
	draft.ID = s.newID()
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.Expense{}, err
	}
	return draft, nil
}

// Update merges the supplied fields of e into an existing expense.
// A zero amount leaves the stored amount alone.
func (s *ExpenseService) Update(ctx context.Context, scope store.Scope, e model.Expense) (model.Expense, error) {
	out, ok, err := s.c.mutate(ctx, scope, e.ID, func(cur *model.Expense) error {
		merge(&cur.Description, e.Description)
		merge(&cur.Amount, e.Amount)
		mergeTime(&cur.Date, e.Date)
		merge(&cur.Category, e.Category)
		return validateExpense(cur)
	})
	if err != nil {
		return model.Expense{}, err
	}
	if !ok {
		return model.Expense{}, notFound("expense", e.ID)
	}
	return out, nil
}

// Delete removes an expense and reports whether it existed.
func (s *ExpenseService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

func validateExpense(e *model.Expense) error {
	if e.Amount < 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return invalid("expense amount must be a non-negative number, got %v", e.Amount)
	}
	if e.Date.IsZero() {
		return invalid("expense date is required")
	}
	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		e.Category = "Other"
	}
	return nil
}
