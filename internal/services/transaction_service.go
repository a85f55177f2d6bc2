package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"budgetmaster/internal/aggregate"
	"budgetmaster/internal/classifier"
	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
	"budgetmaster/internal/pagination"
)

// transactionService handles transaction-related business logic. Every
// successful mutation asks the sync trigger to reconcile the affected months.
type transactionService struct {
	db         *gorm.DB
	classifier *classifier.Classifier
	trigger    SyncTrigger
}

// NewTransactionService creates a new TransactionServicer. A nil trigger
// disables reconciliation.
func NewTransactionService(db *gorm.DB, c *classifier.Classifier, trigger SyncTrigger) TransactionServicer {
	if trigger == nil {
		trigger = NopSyncTrigger()
	}
	return &transactionService{db: db, classifier: c, trigger: trigger}
}

// CreateTransaction records a single income or expense.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	transaction, err := newTransaction(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.trigger.TriggerFoodSync(ctx, userID, aggregate.AffectedMonths(*transaction)...)
	return transaction, nil
}

// ImportTransactions records a batch of transactions atomically, then
// reconciles every month the batch touches once.
func (s *transactionService) ImportTransactions(ctx context.Context, userID string, in []TransactionInput) ([]models.Transaction, error) {
	if len(in) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no transactions to import")
	}

	transactions := make([]models.Transaction, 0, len(in))
	for _, input := range in {
		transaction, err := newTransaction(userID, input)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&transactions, 100).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.trigger.TriggerFoodSync(ctx, userID, aggregate.AffectedMonths(transactions...)...)
	return transactions, nil
}

func newTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if !in.Category.Valid() {
		return nil, apperrors.ErrInvalidCategory
	}
	if in.Amount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	return &models.Transaction{
		UserID:      userID,
		Date:        normalizeDate(in.Date),
		Type:        in.Type,
		Category:    in.Category,
		Amount:      in.Amount.Round(2),
		Description: in.Description,
		IsRecurring: in.IsRecurring,
	}, nil
}

// normalizeDate drops the time of day, keeping the calendar date in UTC.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	result, err := pagination.Query[models.Transaction](ctx, base, page, "date DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Month != nil {
		q = q.Where("date >= ? AND date < ?", f.Month.Start(), f.Month.Add(1).Start())
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", normalizeDate(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", normalizeDate(*f.ToDate))
	}
	return q
}

// ListAllTransactions returns every transaction of the user, oldest first.
func (s *transactionService) ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := loadUserTransactions(ctx, s.db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update. Both the old and the new month
// are reconciled when the date moves.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	before := *transaction

	updates := make(map[string]interface{})
	if update.Date != nil {
		updates["date"] = normalizeDate(*update.Date)
	}
	if update.Type != nil {
		updates["type"] = *update.Type
	}
	if update.Category != nil {
		if !update.Category.Valid() {
			return nil, apperrors.ErrInvalidCategory
		}
		updates["category"] = *update.Category
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return nil, apperrors.ErrNegativeAmount
		}
		updates["amount"] = update.Amount.Round(2)
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.IsRecurring != nil {
		updates["is_recurring"] = *update.IsRecurring
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	if err := s.db.WithContext(ctx).Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updated, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	s.trigger.TriggerFoodSync(ctx, userID, aggregate.AffectedMonths(before, *updated)...)
	return updated, nil
}

// DeleteTransaction deletes a transaction and reconciles its month.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.trigger.TriggerFoodSync(ctx, userID, aggregate.AffectedMonths(*transaction)...)
	return nil
}

// GetMonthlySummary aggregates the user's ledger for one month.
func (s *transactionService) GetMonthlySummary(ctx context.Context, userID string, m month.Key) (*MonthlySummary, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}

	txs, err := s.ListAllTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Month:             m.String(),
		Totals:            aggregate.TransactionTotals(txs, m),
		FoodSpent:         aggregate.FoodSpentForMonth(txs, m, s.classifier),
		RecurringExpenses: aggregate.RecurringExpensesForMonth(txs, m),
	}, nil
}
