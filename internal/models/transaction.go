package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategory is the closed set of transaction directions.
type TransactionCategory string

const (
	CategoryIncome  TransactionCategory = "income"
	CategoryExpense TransactionCategory = "expense"
)

// Valid reports whether c is a known category.
func (c TransactionCategory) Valid() bool {
	return c == CategoryIncome || c == CategoryExpense
}

// Transaction is a single income or expense entry. Type is a free-text label
// such as "groceries" or "salary"; Category decides how it is aggregated.
type Transaction struct {
	Base
	UserID      string              `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Date        time.Time           `gorm:"not null;index" json:"date"`
	Type        string              `gorm:"type:varchar(100)" json:"type"`
	Category    TransactionCategory `gorm:"type:varchar(16);not null" json:"category"`
	Amount      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string              `json:"description"`
	IsRecurring bool                `gorm:"not null" json:"is_recurring"`
}
