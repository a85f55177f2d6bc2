package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"budgetmaster/internal/aggregate"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
	"budgetmaster/internal/pagination"
	"budgetmaster/internal/storage"
)

// BudgetDraft describes a budget to create. When IsRecurring is set the draft
// month is the first of twelve monthly rows.
type BudgetDraft struct {
	Name          string
	PlannedBudget decimal.Decimal
	MoneySpent    decimal.Decimal
	Month         month.Key
	IsRecurring   bool
}

// SyncResult is the outcome of a food budget reconciliation.
type SyncResult struct {
	Month   string          `json:"month"`
	Budget  *models.Budget  `json:"budget"`
	Created bool            `json:"created"`
	Spent   decimal.Decimal `json:"spent"`
	Budgets []models.Budget `json:"budgets"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	FetchBudgets(ctx context.Context, userID string, m month.Key) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	AddBudget(ctx context.Context, userID string, draft BudgetDraft) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, update storage.BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	SyncFoodBudget(ctx context.Context, userID string, txs []models.Transaction, m month.Key) (*SyncResult, error)
	// ApplyBudgetsChanged drops cached months that another process changed
	// and notifies this process's listeners.
	ApplyBudgetsChanged(userID string, months ...month.Key)
}

// BudgetNotifier is told which months changed after a budget mutation.
type BudgetNotifier interface {
	BudgetsChanged(userID string, months ...month.Key)
}

// Notifiers fans a change out to several notifiers.
type Notifiers []BudgetNotifier

// BudgetsChanged implements BudgetNotifier.
func (ns Notifiers) BudgetsChanged(userID string, months ...month.Key) {
	for _, n := range ns {
		if n != nil {
			n.BudgetsChanged(userID, months...)
		}
	}
}

// Reconciler recomputes the food budget of a month from the stored ledger.
type Reconciler interface {
	ReconcileMonth(ctx context.Context, userID string, m month.Key) (*SyncResult, error)
}

// SyncTrigger requests food budget reconciliation for the given months.
// Implementations are best-effort and never fail the caller.
type SyncTrigger interface {
	TriggerFoodSync(ctx context.Context, userID string, months ...month.Key)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Month    *month.Key
	Category *models.TransactionCategory
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	Date        time.Time
	Type        string
	Category    models.TransactionCategory
	Amount      decimal.Decimal
	Description string
	IsRecurring bool
}

// TransactionUpdate is a partial update; nil fields are left unchanged.
type TransactionUpdate struct {
	Date        *time.Time
	Type        *string
	Category    *models.TransactionCategory
	Amount      *decimal.Decimal
	Description *string
	IsRecurring *bool
}

// MonthlySummary combines the income/expense totals of a month with its food
// and recurring expense figures.
type MonthlySummary struct {
	Month string `json:"month"`
	aggregate.Totals
	FoodSpent         decimal.Decimal `json:"food_spent"`
	RecurringExpenses decimal.Decimal `json:"recurring_expenses"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error)
	ImportTransactions(ctx context.Context, userID string, in []TransactionInput) ([]models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	GetMonthlySummary(ctx context.Context, userID string, m month.Key) (*MonthlySummary, error)
}

// SavingsGoalInput holds the fields of a new savings goal.
type SavingsGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Deadline     *time.Time
}

// SavingsGoalUpdate is a partial update; nil fields are left unchanged.
type SavingsGoalUpdate struct {
	Name         *string
	TargetAmount *decimal.Decimal
	Deadline     *time.Time
}

// SavingsGoalServicer defines the contract for savings goal business logic.
type SavingsGoalServicer interface {
	CreateSavingsGoal(ctx context.Context, userID string, in SavingsGoalInput) (*models.SavingsGoal, error)
	GetUserSavingsGoals(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetSavingsGoalByID(ctx context.Context, userID, goalID string) (*models.SavingsGoal, error)
	UpdateSavingsGoal(ctx context.Context, userID, goalID string, update SavingsGoalUpdate) (*models.SavingsGoal, error)
	DeleteSavingsGoal(ctx context.Context, userID, goalID string) error
	AddFunds(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*models.SavingsGoal, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
