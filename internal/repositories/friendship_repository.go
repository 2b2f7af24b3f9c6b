package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/discgolf/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	SendFriendRequest(ctx context.Context, req *models.FriendRequest) error
	GetFriendRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetFriendRequestBetween(ctx context.Context, userA, userB uint) (*models.FriendRequest, error)
	GetUserPendingFriendRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	GetUserFriends(ctx context.Context, userID uint) ([]models.User, error)
	CountAcceptedFriendships(ctx context.Context, userID uint) (int64, error)
	UpdateFriendRequestStatus(ctx context.Context, id uint, status string) error
	DeleteFriendRequest(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// SendFriendRequest creates a new pending friend request unless one is pending or the users are already friends
func (r *PostgresFriendshipRepository) SendFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	existing, err := r.GetFriendRequestBetween(ctx, req.SenderID, req.ReceiverID)
	if err == nil {
		switch existing.Status {
		case models.FriendStatusPending:
			return fmt.Errorf("a pending friend request already exists between these users")
		case models.FriendStatusAccepted:
			return fmt.Errorf("users are already friends")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	req.Status = models.FriendStatusPending
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *PostgresFriendshipRepository) GetFriendRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetFriendRequestBetween returns the most recent request between two users in either direction
func (r *PostgresFriendshipRepository) GetFriendRequestBetween(ctx context.Context, userA, userB uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("id DESC").
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PostgresFriendshipRepository) GetUserPendingFriendRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).Where("receiver_id = ? AND status = ?", userID, models.FriendStatusPending).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetUserFriends retrieves all accepted friends for a user
func (r *PostgresFriendshipRepository) GetUserFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	db := r.db.WithContext(ctx)
	sent := db.Model(&models.FriendRequest{}).Select("receiver_id").Where("sender_id = ? AND status = ?", userID, models.FriendStatusAccepted)
	received := db.Model(&models.FriendRequest{}).Select("sender_id").Where("receiver_id = ? AND status = ?", userID, models.FriendStatusAccepted)

	if err := db.Where("id IN (?) OR id IN (?)", sent, received).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// CountAcceptedFriendships counts accepted requests where the user is either party
func (r *PostgresFriendshipRepository) CountAcceptedFriendships(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Count(&count).Error
	return count, err
}

func (r *PostgresFriendshipRepository) UpdateFriendRequestStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.FriendRequest{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PostgresFriendshipRepository) DeleteFriendRequest(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id).Error
}

// DeleteByUserID hard-deletes every request the user sent or received
func (r *PostgresFriendshipRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.FriendRequest{}).Error
}
