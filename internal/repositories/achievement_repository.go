package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/discgolf/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementRepository stores the achievement catalog and per-user awards
type AchievementRepository interface {
	SeedDefinitions(ctx context.Context, defs []models.AchievementDefinition) (int64, error)
	GetDefinitions(ctx context.Context) ([]models.AchievementDefinition, error)
	GetDefinitionByName(ctx context.Context, name string) (*models.AchievementDefinition, error)
	HasAward(ctx context.Context, userID uint, name string) (bool, error)
	CreateAward(ctx context.Context, award *models.AchievementAward) error
	GetAwardsByUserID(ctx context.Context, userID uint) ([]models.AchievementAward, error)
	DeleteAwardsByUserID(ctx context.Context, userID uint) error
}

type postgresAchievementRepository struct {
	db *gorm.DB
}

func NewPostgresAchievementRepository(db *gorm.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

// SeedDefinitions inserts catalog entries that don't exist yet and reports how many were added.
// Existing definitions are left untouched.
func (r *postgresAchievementRepository) SeedDefinitions(ctx context.Context, defs []models.AchievementDefinition) (int64, error) {
	if len(defs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&defs)
	return res.RowsAffected, res.Error
}

func (r *postgresAchievementRepository) GetDefinitions(ctx context.Context) ([]models.AchievementDefinition, error) {
	var defs []models.AchievementDefinition
	err := r.db.WithContext(ctx).Order("category ASC, points ASC, name ASC").Find(&defs).Error
	return defs, err
}

func (r *postgresAchievementRepository) GetDefinitionByName(ctx context.Context, name string) (*models.AchievementDefinition, error) {
	var def models.AchievementDefinition
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *postgresAchievementRepository) HasAward(ctx context.Context, userID uint, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AchievementAward{}).
		Where("user_id = ? AND achievement_name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

// CreateAward inserts the award, relying on the (user_id, achievement_name) unique index.
// A conflicting insert writes nothing and yields ErrAlreadyAwarded.
func (r *postgresAchievementRepository) CreateAward(ctx context.Context, award *models.AchievementAward) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_name"}},
		DoNothing: true,
	}).Create(award)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrAlreadyAwarded
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyAwarded
	}
	return nil
}

func (r *postgresAchievementRepository) GetAwardsByUserID(ctx context.Context, userID uint) ([]models.AchievementAward, error) {
	var awards []models.AchievementAward
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at DESC").Find(&awards).Error
	return awards, err
}

func (r *postgresAchievementRepository) DeleteAwardsByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AchievementAward{}).Error
}
