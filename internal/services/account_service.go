package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserDeleter interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type AwardDeleter interface {
	DeleteAwardsByUserID(ctx context.Context, userID uint) error
}

// ByUserDeleter removes every record a user owns in one store
type ByUserDeleter interface {
	DeleteByUserID(ctx context.Context, userID uint) error
}

// AccountService removes a user together with everything that belongs to them
type AccountService struct {
	users       UserDeleter
	awards      AwardDeleter
	activities  ByUserDeleter
	goals       ByUserDeleter
	friendships ByUserDeleter
	rounds      ByUserDeleter
	log         *logger.Logger
}

func NewAccountService(users UserDeleter, awards AwardDeleter, activities, goals, friendships, rounds ByUserDeleter, log *logger.Logger) *AccountService {
	return &AccountService{
		users:       users,
		awards:      awards,
		activities:  activities,
		goals:       goals,
		friendships: friendships,
		rounds:      rounds,
		log:         log.With("service", "AccountService"),
	}
}

// DeleteAccount cascades the deletion over awards, activities, goals, friendships and rounds before
// removing the user. A failure stops the cascade; calling again resumes it.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user %d: %w", userID, err)
	}

	steps := []struct {
		name string
		run  func(context.Context, uint) error
	}{
		{"achievement awards", s.awards.DeleteAwardsByUserID},
		{"activities", s.activities.DeleteByUserID},
		{"goals", s.goals.DeleteByUserID},
		{"friendships", s.friendships.DeleteByUserID},
		{"rounds", s.rounds.DeleteByUserID},
		{"user", s.users.DeleteUser},
	}
	for _, step := range steps {
		if err := step.run(ctx, userID); err != nil {
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}

	s.log.Info("account deleted", "user_id", userID)
	return nil
}
