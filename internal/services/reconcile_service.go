package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/logger"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
)

// ledgerReconciler feeds the stored transactions of a user into the budget
// service's food sync.
type ledgerReconciler struct {
	db      *gorm.DB
	budgets BudgetServicer
}

// NewReconciler creates a Reconciler that reads transactions from db.
func NewReconciler(db *gorm.DB, budgets BudgetServicer) Reconciler {
	return &ledgerReconciler{db: db, budgets: budgets}
}

// ReconcileMonth loads the user's ledger and synchronizes the food budget of m.
func (r *ledgerReconciler) ReconcileMonth(ctx context.Context, userID string, m month.Key) (*SyncResult, error) {
	txs, err := loadUserTransactions(ctx, r.db, userID)
	if err != nil {
		logger.Get().Errorw("failed to load transactions for reconciliation",
			"user_id", userID,
			"month", m.String(),
			"error", err,
		)
		return nil, apperrors.Wrap(apperrors.ErrSyncFailed, err)
	}
	return r.budgets.SyncFoodBudget(ctx, userID, txs, m)
}

func loadUserTransactions(ctx context.Context, db *gorm.DB, userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("date ASC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// inlineSyncTrigger reconciles synchronously within the caller's request.
type inlineSyncTrigger struct {
	reconciler Reconciler
}

// NewInlineSyncTrigger creates a SyncTrigger that runs reconciliation
// immediately and only logs failures.
func NewInlineSyncTrigger(reconciler Reconciler) SyncTrigger {
	return &inlineSyncTrigger{reconciler: reconciler}
}

func (t *inlineSyncTrigger) TriggerFoodSync(ctx context.Context, userID string, months ...month.Key) {
	for _, m := range months {
		if _, err := t.reconciler.ReconcileMonth(ctx, userID, m); err != nil {
			logger.Get().Warnw("food sync trigger failed",
				"user_id", userID,
				"month", m.String(),
				"error", err,
			)
		}
	}
}

type nopSyncTrigger struct{}

// NopSyncTrigger returns a SyncTrigger that does nothing.
func NopSyncTrigger() SyncTrigger { return nopSyncTrigger{} }

func (nopSyncTrigger) TriggerFoodSync(context.Context, string, ...month.Key) {}
