package repositories

import (
	"context"

	"github.com/anonto42/discgolf/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for the user activity feed
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetByUserID(ctx context.Context, userID uint, page, limit int) ([]models.Activity, int64, error)
	GetUnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, userID, activityID uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type postgresActivityRepository struct {
	db *gorm.DB
}

func NewPostgresActivityRepository(db *gorm.DB) ActivityRepository {
	return &postgresActivityRepository{db: db}
}

func (r *postgresActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *postgresActivityRepository) GetByUserID(ctx context.Context, userID uint, page, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&activities).Error

	return activities, total, err
}

func (r *postgresActivityRepository) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Activity{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag on one of the user's activities
func (r *postgresActivityRepository) MarkAsRead(ctx context.Context, userID, activityID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ? AND user_id = ?", activityID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresActivityRepository) MarkAllAsRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.Activity{}).Where("user_id = ? AND is_read = ?", userID, false).Update("is_read", true).Error
}

func (r *postgresActivityRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Activity{}).Error
}
