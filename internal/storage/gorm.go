package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budgetmaster/internal/models"
)

// GormBudgetStore implements BudgetStore on top of gorm. The *gorm.DB must be
// opened with TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
type GormBudgetStore struct {
	db *gorm.DB
}

var _ BudgetStore = (*GormBudgetStore)(nil)

// NewGormBudgetStore creates a GormBudgetStore.
func NewGormBudgetStore(db *gorm.DB) *GormBudgetStore {
	return &GormBudgetStore{db: db}
}

func (s *GormBudgetStore) ListByMonth(ctx context.Context, userID, month string) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *GormBudgetStore) FindByName(ctx context.Context, userID, month, name string) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND name_key = ?", userID, month, models.NameKey(name)).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("find budget by name: %w", err)
	}
	return budgets, nil
}

func (s *GormBudgetStore) Get(ctx context.Context, userID, id string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&budget).Error
	if err != nil {
		return nil, translate("get budget", err)
	}
	return &budget, nil
}

func (s *GormBudgetStore) Insert(ctx context.Context, budgets ...*models.Budget) error {
	if len(budgets) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&budgets).Error
	})
	if err != nil {
		return translate("insert budgets", err)
	}
	return nil
}

func (s *GormBudgetStore) Update(ctx context.Context, userID, id string, update BudgetUpdate) (*models.Budget, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if update.Name != nil {
		updates["name"] = *update.Name
		updates["name_key"] = models.NameKey(*update.Name)
	}
	if update.PlannedBudget != nil {
		updates["planned_budget"] = *update.PlannedBudget
	}
	if update.MoneySpent != nil {
		updates["money_spent"] = *update.MoneySpent
	}
	if update.Month != nil {
		updates["month"] = *update.Month
	}
	if update.IsRecurring != nil {
		updates["is_recurring"] = *update.IsRecurring
	}

	res := s.db.WithContext(ctx).Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, translate("update budget", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

func (s *GormBudgetStore) Delete(ctx context.Context, userID, id string) (*models.Budget, error) {
	var deleted *models.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
			return err
		}
		if err := tx.Delete(&budget).Error; err != nil {
			return err
		}
		deleted = &budget
		return nil
	})
	if err != nil {
		return nil, translate("delete budget", err)
	}
	return deleted, nil
}

func (s *GormBudgetStore) UpsertSpent(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "name_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"money_spent", "updated_at"}),
	}).Create(b).Error
	if err != nil {
		return nil, translate("upsert budget", err)
	}

	// On conflict the row keeps its original id, so read it back by name.
	rows, err := s.FindByName(ctx, b.UserID, b.Month, b.Name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
