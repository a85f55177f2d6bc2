package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FoodBudgetName is the name of the budget maintained by food reconciliation.
const FoodBudgetName = "food"

// Budget is a planned spending envelope for one calendar month. A recurring
// budget is stored as one independent row per month.
type Budget struct {
	Base
	UserID        string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_budgets_user_month_name,priority:1" json:"user_id"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	NameKey       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_budgets_user_month_name,priority:3" json:"-"`
	PlannedBudget decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"planned_budget"`
	MoneySpent    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"money_spent"`
	Month         string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_budgets_user_month_name,priority:2;index" json:"month"`
	IsRecurring   bool            `gorm:"not null" json:"is_recurring"`
}

// BeforeSave keeps NameKey in step with Name.
func (b *Budget) BeforeSave(tx *gorm.DB) error {
	b.NameKey = NameKey(b.Name)
	return nil
}

// NameKey normalizes a budget name for case-insensitive matching.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
