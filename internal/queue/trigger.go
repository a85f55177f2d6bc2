package queue

import (
	"context"

	"budgetmaster/internal/logger"
	"budgetmaster/internal/month"
	"budgetmaster/internal/services"
)

// Publisher is the publishing side of Client.
type Publisher interface {
	PublishReconcile(ctx context.Context, userID string, m month.Key) error
}

// ChangePublisher announces budget changes made outside the API process.
type ChangePublisher interface {
	PublishBudgetsChanged(ctx context.Context, userID string, months ...month.Key) error
}

// SyncTrigger publishes reconcile requests instead of running them in-process.
type SyncTrigger struct {
	publisher Publisher
}

var _ services.SyncTrigger = (*SyncTrigger)(nil)

// NewSyncTrigger creates a SyncTrigger backed by publisher.
func NewSyncTrigger(publisher Publisher) *SyncTrigger {
	return &SyncTrigger{publisher: publisher}
}

// TriggerFoodSync publishes one message per month. Publish failures are logged.
func (t *SyncTrigger) TriggerFoodSync(ctx context.Context, userID string, months ...month.Key) {
	for _, m := range months {
		if err := t.publisher.PublishReconcile(ctx, userID, m); err != nil {
			logger.Named("queue").Warnw("failed to publish reconcile message",
				"user_id", userID,
				"month", m.String(),
				"error", err,
			)
		}
	}
}

// ReconcileHandler adapts a services.Reconciler to a queue Handler.
func ReconcileHandler(reconciler services.Reconciler) Handler {
	return func(ctx context.Context, msg *ReconcileMessage) error {
		m, err := msg.MonthKey()
		if err != nil {
			return err
		}
		res, err := reconciler.ReconcileMonth(ctx, msg.UserID, m)
		if err != nil {
			return err
		}
		logger.Named("queue").Infow("reconciled food budget from queue",
			"user_id", msg.UserID,
			"month", res.Month,
			"spent", res.Spent.String(),
		)
		return nil
	}
}

// ChangeNotifier forwards budget notifications to the API instances. The
// reconcile worker uses it in place of a websocket hub.
type ChangeNotifier struct {
	publisher ChangePublisher
}

var _ services.BudgetNotifier = (*ChangeNotifier)(nil)

// NewChangeNotifier creates a ChangeNotifier backed by publisher.
func NewChangeNotifier(publisher ChangePublisher) *ChangeNotifier {
	return &ChangeNotifier{publisher: publisher}
}

// BudgetsChanged publishes one event for all months. Failures are logged.
func (n *ChangeNotifier) BudgetsChanged(userID string, months ...month.Key) {
	if err := n.publisher.PublishBudgetsChanged(context.Background(), userID, months...); err != nil {
		logger.Named("queue").Warnw("failed to publish budget event",
			"user_id", userID,
			"months", len(months),
			"error", err,
		)
	}
}

// ApplyBudgetChanges adapts a services.BudgetServicer to an EventHandler.
func ApplyBudgetChanges(budgets services.BudgetServicer) EventHandler {
	return func(_ context.Context, msg *BudgetsChangedMessage) error {
		months, err := msg.MonthKeys()
		if err != nil {
			return err
		}
		budgets.ApplyBudgetsChanged(msg.UserID, months...)
		return nil
	}
}
