package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"budgetmaster/internal/aggregate"
	"budgetmaster/internal/cache"
	"budgetmaster/internal/classifier"
	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/logger"
	"budgetmaster/internal/models"
	"budgetmaster/internal/month"
	"budgetmaster/internal/storage"
)

// RecurringMonths is the number of monthly rows a recurring budget expands to.
const RecurringMonths = 12

// DefaultFoodPlanned is the planned amount of a food budget created by
// reconciliation when none is configured.
var DefaultFoodPlanned = decimal.NewFromInt(4000)

// BudgetOptions configures a budget service.
type BudgetOptions struct {
	Classifier         *classifier.Classifier
	DefaultFoodPlanned decimal.Decimal
	// InvalidateSeries drops the cache for all twelve months of a new
	// recurring budget instead of only its first month.
	InvalidateSeries bool
	Notifier         BudgetNotifier
}

// budgetService handles budget-related business logic.
type budgetService struct {
	store              storage.BudgetStore
	cache              *cache.MonthCache[[]models.Budget]
	classifier         *classifier.Classifier
	defaultFoodPlanned decimal.Decimal
	invalidateSeries   bool
	notifier           BudgetNotifier
}

// NewBudgetService creates a new BudgetServicer. A nil cache gets a fresh one.
func NewBudgetService(store storage.BudgetStore, budgetCache *cache.MonthCache[[]models.Budget], opts BudgetOptions) BudgetServicer {
	if budgetCache == nil {
		budgetCache = cache.NewMonthCache[[]models.Budget]()
	}
	if opts.Classifier == nil {
		opts.Classifier = classifier.New(classifier.DefaultFoodKeywords)
	}
	if opts.DefaultFoodPlanned.IsZero() {
		opts.DefaultFoodPlanned = DefaultFoodPlanned
	}
	return &budgetService{
		store:              store,
		cache:              budgetCache,
		classifier:         opts.Classifier,
		defaultFoodPlanned: opts.DefaultFoodPlanned,
		invalidateSeries:   opts.InvalidateSeries,
		notifier:           opts.Notifier,
	}
}

// FetchBudgets returns the user's budgets for a month, served from the cache
// when possible.
func (s *budgetService) FetchBudgets(ctx context.Context, userID string, m month.Key) ([]models.Budget, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}

	budgets, _, err := s.cache.GetOrLoad(ctx, userID, m, func(ctx context.Context) ([]models.Budget, error) {
		return s.store.ListByMonth(ctx, userID, m.String())
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Callers get their own slice so the cached one is never mutated.
	out := make([]models.Budget, len(budgets))
	copy(out, budgets)
	return out, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	budget, err := s.store.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, budgetStoreError(err)
	}
	return budget, nil
}

// AddBudget creates one budget, or twelve monthly budgets when the draft is
// recurring. All rows are written together or not at all.
func (s *budgetService) AddBudget(ctx context.Context, userID string, draft BudgetDraft) ([]models.Budget, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if draft.Month.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}
	if draft.PlannedBudget.IsNegative() || draft.MoneySpent.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	rows := expandDraft(userID, draft)
	if err := s.store.Insert(ctx, rows...); err != nil {
		return nil, budgetStoreError(err)
	}

	invalidated := []month.Key{draft.Month}
	if draft.IsRecurring && s.invalidateSeries {
		invalidated = monthsOf(rows...)
	}
	s.cache.Invalidate(userID, invalidated...)
	s.notify(userID, monthsOf(rows...)...)

	if _, err := s.FetchBudgets(ctx, userID, draft.Month); err != nil {
		logger.Get().Warnw("failed to refresh budgets after add", "user_id", userID, "month", draft.Month.String(), "error", err)
	}

	created := make([]models.Budget, len(rows))
	for i, row := range rows {
		created[i] = *row
	}
	return created, nil
}

// expandDraft builds the rows for a draft. A recurring draft yields
// RecurringMonths rows starting at the draft month, each with nothing spent.
func expandDraft(userID string, draft BudgetDraft) []*models.Budget {
	if !draft.IsRecurring {
		return []*models.Budget{{
			UserID:        userID,
			Name:          draft.Name,
			PlannedBudget: draft.PlannedBudget,
			MoneySpent:    draft.MoneySpent,
			Month:         draft.Month.String(),
		}}
	}

	rows := make([]*models.Budget, 0, RecurringMonths)
	for i := 0; i < RecurringMonths; i++ {
		rows = append(rows, &models.Budget{
			UserID:        userID,
			Name:          draft.Name,
			PlannedBudget: draft.PlannedBudget,
			MoneySpent:    decimal.Zero,
			Month:         draft.Month.Add(i).String(),
			IsRecurring:   true,
		})
	}
	return rows
}

// UpdateBudget applies a partial update. Moving a budget to another month
// invalidates both months.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, update storage.BudgetUpdate) (*models.Budget, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be blank")
		}
		update.Name = &name
	}
	if (update.PlannedBudget != nil && update.PlannedBudget.IsNegative()) ||
		(update.MoneySpent != nil && update.MoneySpent.IsNegative()) {
		return nil, apperrors.ErrNegativeAmount
	}
	if update.Month != nil {
		m, err := month.Parse(*update.Month)
		if err != nil {
			return nil, apperrors.ErrInvalidMonth
		}
		canonical := m.String()
		update.Month = &canonical
	}

	before, err := s.store.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, budgetStoreError(err)
	}
	if update.IsEmpty() {
		return before, nil
	}

	after, err := s.store.Update(ctx, userID, budgetID, update)
	if err != nil {
		return nil, budgetStoreError(err)
	}

	changed := monthsOf(before, after)
	s.cache.Invalidate(userID, changed...)
	s.notify(userID, changed...)
	return after, nil
}

// DeleteBudget removes a single month's budget. Other months of a recurring
// series are not touched.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	deleted, err := s.store.Delete(ctx, userID, budgetID)
	if err != nil {
		return budgetStoreError(err)
	}

	changed := monthsOf(deleted)
	s.cache.Invalidate(userID, changed...)
	s.notify(userID, changed...)
	return nil
}

// SyncFoodBudget sets money_spent of the user's food budget for m to the food
// spend computed from txs, creating the budget with the default planned amount
// if it does not exist. The planned amount of an existing budget is never
// changed. Failures are logged and returned; nothing is retried.
func (s *budgetService) SyncFoodBudget(ctx context.Context, userID string, txs []models.Transaction, m month.Key) (*SyncResult, error) {
	if m.IsZero() {
		return nil, apperrors.ErrInvalidMonth
	}

	monthKey := m.String()
	spent := aggregate.FoodSpentForMonth(txs, m, s.classifier)
	result := &SyncResult{Month: monthKey, Spent: spent}

	existing, err := s.store.FindByName(ctx, userID, monthKey, models.FoodBudgetName)
	if err != nil {
		return nil, s.syncFailed(userID, monthKey, "find", err)
	}

	if len(existing) > 0 {
		if len(existing) > 1 {
			logger.Get().Warnw("multiple food budgets for month, updating the oldest",
				"user_id", userID,
				"month", monthKey,
				"count", len(existing),
			)
		}
		updated, err := s.store.Update(ctx, userID, existing[0].ID, storage.BudgetUpdate{MoneySpent: &spent})
		if err != nil {
			return nil, s.syncFailed(userID, monthKey, "update", err)
		}
		result.Budget = updated
	} else {
		budget := &models.Budget{
			UserID:        userID,
			Name:          models.FoodBudgetName,
			PlannedBudget: s.defaultFoodPlanned,
			MoneySpent:    spent,
			Month:         monthKey,
		}
		stored, err := s.store.UpsertSpent(ctx, budget)
		if err != nil {
			return nil, s.syncFailed(userID, monthKey, "insert", err)
		}
		// A concurrent writer may have inserted first; the upsert then
		// returns that row instead of ours.
		result.Budget = stored
		result.Created = stored.ID == budget.ID
	}

	s.cache.Invalidate(userID, m)
	budgets, err := s.FetchBudgets(ctx, userID, m)
	if err != nil {
		return nil, s.syncFailed(userID, monthKey, "refresh", err)
	}
	result.Budgets = budgets
	s.notify(userID, m)

	logger.Get().Infow("food budget synchronized",
		"user_id", userID,
		"month", monthKey,
		"spent", spent.String(),
		"created", result.Created,
	)
	return result, nil
}

// ApplyBudgetsChanged invalidates months changed by another process, such as
// the reconcile worker, and notifies local listeners.
func (s *budgetService) ApplyBudgetsChanged(userID string, months ...month.Key) {
	if userID == "" || len(months) == 0 {
		return
	}
	s.cache.Invalidate(userID, months...)
	s.notify(userID, months...)
}

func (s *budgetService) syncFailed(userID, monthKey, step string, err error) error {
	logger.Get().Errorw("food budget sync failed",
		"user_id", userID,
		"month", monthKey,
		"step", step,
		"error", err,
	)
	return apperrors.Wrap(apperrors.ErrSyncFailed, err)
}

func (s *budgetService) notify(userID string, months ...month.Key) {
	if s.notifier == nil || len(months) == 0 {
		return
	}
	s.notifier.BudgetsChanged(userID, months...)
}

// monthsOf returns the distinct months of the given budgets, skipping rows
// with an unparseable month.
func monthsOf(budgets ...*models.Budget) []month.Key {
	seen := make(map[month.Key]bool, len(budgets))
	var out []month.Key
	for _, b := range budgets {
		if b == nil {
			continue
		}
		m, err := month.Parse(b.Month)
		if err != nil || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func budgetStoreError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.ErrBudgetNotFound
	case errors.Is(err, storage.ErrConflict):
		return apperrors.Wrap(apperrors.ErrBudgetConflict, err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
