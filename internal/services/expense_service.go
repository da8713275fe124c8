// Package services provides business logic and orchestration on top of
// the storage layer.
package services

import (
	"context"
	"fmt"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// ExpenseService validates and persists expenses. Summary recomputation
// happens inside the store's transaction, so a successful return means
// the affected monthly totals are already up to date.
type ExpenseService struct {
	store storage.Store
}

func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

func (s *ExpenseService) Create(ctx context.Context, adminID int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.store.CreateExpense(ctx, adminID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return created, nil
}

func (s *ExpenseService) Get(ctx context.Context, adminID, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, adminID, id)
}

func (s *ExpenseService) List(ctx context.Context, adminID int64, f storage.ExpenseFilter) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, adminID, f)
}

func (s *ExpenseService) Update(ctx context.Context, adminID int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	updated, err := s.store.UpdateExpense(ctx, adminID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, adminID, id int64) error {
	return s.store.DeleteExpense(ctx, adminID, id)
}
