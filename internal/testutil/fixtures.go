package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetmaster/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a unique opaque user id.
func NewUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestTransaction creates an expense or income transaction.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, category models.TransactionCategory, description string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Type:        "test",
		Category:    category,
		Amount:      decimal.NewFromInt(amount),
		Description: description,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a non-recurring budget for the given month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, name, month string, planned, spent int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:        userID,
		Name:          name,
		PlannedBudget: decimal.NewFromInt(planned),
		MoneySpent:    decimal.NewFromInt(spent),
		Month:         month,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSavingsGoal creates a savings goal with nothing saved yet.
func CreateTestSavingsGoal(t *testing.T, db *gorm.DB, userID string, target int64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: decimal.NewFromInt(target),
		SavedAmount:  decimal.Zero,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test savings goal: %v", err)
	}
	return goal
}
