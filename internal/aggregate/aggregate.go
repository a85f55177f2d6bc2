// Package aggregate computes per-month totals over a user's transactions.
// All functions are pure and never touch storage.
package aggregate

import (
	"github.com/shopspring/decimal"

	"budgetmaster/internal/classifier"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
)

// Totals summarizes income and expenses for a month.
type Totals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetTotal      decimal.Decimal `json:"net_total"`
	IncomeCount   int             `json:"income_count"`
	ExpenseCount  int             `json:"expense_count"`
}

// FoodSpentForMonth sums expense transactions dated within m whose description
// the classifier recognizes as food. Recurring transactions dated in another
// month are not counted.
func FoodSpentForMonth(txs []models.Transaction, m month.Key, c *classifier.Classifier) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Category != models.CategoryExpense || !m.Contains(tx.Date) {
			continue
		}
		if !c.IsFoodTransaction(tx.Description) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// TransactionTotals sums income and expenses for m. A transaction is in scope
// when it is dated within m or is recurring, regardless of its date.
func TransactionTotals(txs []models.Transaction, m month.Key) Totals {
	t := Totals{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for i := range txs {
		tx := &txs[i]
		if !tx.IsRecurring && !m.Contains(tx.Date) {
			continue
		}
		switch tx.Category {
		case models.CategoryIncome:
			t.TotalIncome = t.TotalIncome.Add(tx.Amount)
			t.IncomeCount++
		case models.CategoryExpense:
			t.TotalExpenses = t.TotalExpenses.Add(tx.Amount)
			t.ExpenseCount++
		}
	}
	t.NetTotal = t.TotalIncome.Sub(t.TotalExpenses)
	return t
}

// RecurringExpensesForMonth sums recurring expenses dated within m.
func RecurringExpensesForMonth(txs []models.Transaction, m month.Key) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.IsRecurring && tx.Category == models.CategoryExpense && m.Contains(tx.Date) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// AffectedMonths returns the distinct months the given transactions are dated
// in, in first-seen order. Zero dates are skipped.
func AffectedMonths(txs ...models.Transaction) []month.Key {
	seen := make(map[month.Key]bool, len(txs))
	var out []month.Key
	for i := range txs {
		if txs[i].Date.IsZero() {
			continue
		}
		k := month.Of(txs[i].Date)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
