package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/discgolf/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestActivityFeed(t *testing.T) {
	repo := NewPostgresActivityRepository(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		a := &models.Activity{
			UserID:    1,
			Type:      models.ActivityAchievementEarned,
			Title:     "Achievement Unlocked",
			Data:      datatypes.JSON(`{"points":10}`),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.CreateActivity(ctx, a); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}
	_ = repo.CreateActivity(ctx, &models.Activity{UserID: 2, Type: models.ActivityGoalCompleted, Title: "other"})

	page, total, err := repo.GetByUserID(ctx, 1, 1, 2)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("total=%d page=%d, want 5 and 2", total, len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Errorf("feed is not newest first")
	}

	unread, _ := repo.GetUnreadCount(ctx, 1)
	if unread != 5 {
		t.Errorf("unread = %d, want 5", unread)
	}

	if err := repo.MarkAsRead(ctx, 2, page[0].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("marking another user's activity = %v, want ErrRecordNotFound", err)
	}
	if err := repo.MarkAsRead(ctx, 1, page[0].ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if unread, _ := repo.GetUnreadCount(ctx, 1); unread != 4 {
		t.Errorf("unread after one read = %d, want 4", unread)
	}

	if err := repo.MarkAllAsRead(ctx, 1); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}
	if unread, _ := repo.GetUnreadCount(ctx, 1); unread != 0 {
		t.Errorf("unread after read-all = %d", unread)
	}
	if unread, _ := repo.GetUnreadCount(ctx, 2); unread != 1 {
		t.Errorf("other user's unread changed: %d", unread)
	}

	if err := repo.DeleteByUserID(ctx, 1); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	if _, total, _ := repo.GetByUserID(ctx, 1, 1, 10); total != 0 {
		t.Errorf("activities left after delete: %d", total)
	}
}
