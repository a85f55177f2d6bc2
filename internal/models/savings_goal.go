package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	Base
	UserID       string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"target_amount"`
	SavedAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"saved_amount"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
}

// Progress returns the saved share of the target as a percentage.
func (g *SavingsGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct, _ := g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
