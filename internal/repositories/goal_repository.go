package repositories

import (
	"context"

	"github.com/anonto42/discgolf/backend/internal/models"
	"gorm.io/gorm"
)

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoalsByUserID(ctx context.Context, userID uint) ([]models.Goal, error)
	GetOpenGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	SaveGoal(ctx context.Context, goal *models.Goal) error
	CountCompletedGoals(ctx context.Context, userID uint) (int64, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type postgresGoalRepository struct {
	db *gorm.DB
}

func NewPostgresGoalRepository(db *gorm.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

func (r *postgresGoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *postgresGoalRepository) GetGoalsByUserID(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (r *postgresGoalRepository) GetOpenGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.WithContext(ctx).Where("user_id = ? AND completed = ?", userID, false).Order("id ASC").Find(&goals).Error
	return goals, err
}

func (r *postgresGoalRepository) SaveGoal(ctx context.Context, goal *models.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *postgresGoalRepository) CountCompletedGoals(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Goal{}).Where("user_id = ? AND completed = ?", userID, true).Count(&count).Error
	return count, err
}

func (r *postgresGoalRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Goal{}).Error
}
