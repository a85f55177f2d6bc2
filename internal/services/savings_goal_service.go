package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgetmaster/internal/errors"
	"budgetmaster/internal/models"
	"budgetmaster/internal/pagination"
)

// savingsGoalService handles savings goal business logic.
type savingsGoalService struct {
	db *gorm.DB
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(db *gorm.DB) SavingsGoalServicer {
	return &savingsGoalService{db: db}
}

// CreateSavingsGoal creates a new savings goal for the user.
func (s *savingsGoalService) CreateSavingsGoal(ctx context.Context, userID string, in SavingsGoalInput) (*models.SavingsGoal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !in.TargetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if in.SavedAmount.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         name,
		TargetAmount: in.TargetAmount.Round(2),
		SavedAmount:  in.SavedAmount.Round(2),
		Deadline:     in.Deadline,
	}
	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserSavingsGoals returns a paginated list of the user's goals.
func (s *savingsGoalService) GetUserSavingsGoals(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)

	result, err := pagination.Query[models.SavingsGoal](ctx, base, page, "created_at ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetSavingsGoalByID returns a goal if it belongs to the user.
func (s *savingsGoalService) GetSavingsGoalByID(ctx context.Context, userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavingsGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateSavingsGoal applies a partial update to a goal.
func (s *savingsGoalService) UpdateSavingsGoal(ctx context.Context, userID, goalID string, update SavingsGoalUpdate) (*models.SavingsGoal, error) {
	goal, err := s.GetSavingsGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be blank")
		}
		updates["name"] = name
	}
	if update.TargetAmount != nil {
		if !update.TargetAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = update.TargetAmount.Round(2)
	}
	if update.Deadline != nil {
		updates["deadline"] = *update.Deadline
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetSavingsGoalByID(ctx, userID, goalID)
}

// DeleteSavingsGoal removes a goal.
func (s *savingsGoalService) DeleteSavingsGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.GetSavingsGoalByID(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddFunds increments the saved amount. The increment is applied in SQL so
// concurrent deposits are not lost.
func (s *savingsGoalService) AddFunds(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*models.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidFunds
	}

	res := s.db.WithContext(ctx).Model(&models.SavingsGoal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		UpdateColumn("saved_amount", gorm.Expr("saved_amount + ?", amount.Round(2)))
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrSavingsGoalNotFound
	}

	return s.GetSavingsGoalByID(ctx, userID, goalID)
}
