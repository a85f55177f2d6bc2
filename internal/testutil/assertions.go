package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/models"
)

// AssertAppError checks that err is an *AppError with the expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares amounts numerically, so "300" equals "300.00".
func AssertDecimal(t *testing.T, field string, got decimal.Decimal, want int64) {
	t.Helper()

	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("expected %s %d, got %s", field, want, got)
	}
}

// AssertBudgetAmounts checks a budget's planned and spent amounts.
func AssertBudgetAmounts(t *testing.T, b *models.Budget, planned, spent int64) {
	t.Helper()

	if b == nil {
		t.Fatal("expected a budget, got nil")
	}
	AssertDecimal(t, b.Name+" planned_budget", b.PlannedBudget, planned)
	AssertDecimal(t, b.Name+" money_spent", b.MoneySpent, spent)
}
