// Package storage defines the persistent-store contract for budgets and its
// gorm implementation.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"budgetmaster/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the given user and id.
	ErrNotFound = errors.New("budget not found")
	// ErrConflict is returned when a write violates the (user, month, name) uniqueness.
	ErrConflict = errors.New("budget already exists for this month")
)

// BudgetUpdate is a partial update; nil fields are left unchanged.
type BudgetUpdate struct {
	Name          *string
	PlannedBudget *decimal.Decimal
	MoneySpent    *decimal.Decimal
	Month         *string
	IsRecurring   *bool
}

// IsEmpty reports whether u changes nothing.
func (u BudgetUpdate) IsEmpty() bool {
	return u.Name == nil && u.PlannedBudget == nil && u.MoneySpent == nil && u.Month == nil && u.IsRecurring == nil
}

// BudgetStore is the set of budget operations the services depend on.
// Every method is scoped by user id.
type BudgetStore interface {
	// ListByMonth returns the user's budgets for a "YYYY-MM" month, oldest first.
	ListByMonth(ctx context.Context, userID, month string) ([]models.Budget, error)
	// FindByName returns budgets whose name matches case-insensitively, oldest first.
	FindByName(ctx context.Context, userID, month, name string) ([]models.Budget, error)
	Get(ctx context.Context, userID, id string) (*models.Budget, error)
	// Insert writes all rows in one transaction; either every row is stored or none.
	Insert(ctx context.Context, budgets ...*models.Budget) error
	Update(ctx context.Context, userID, id string, update BudgetUpdate) (*models.Budget, error)
	// Delete removes one row and returns it.
	Delete(ctx context.Context, userID, id string) (*models.Budget, error)
	// UpsertSpent inserts b, or on a (user, month, name) collision only
	// overwrites money_spent of the existing row. It returns the stored row.
	UpsertSpent(ctx context.Context, b *models.Budget) (*models.Budget, error)
}
