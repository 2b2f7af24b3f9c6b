package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActivityAchievementEarned = "ACHIEVEMENT_EARNED"
	ActivityGoalCompleted     = "GOAL_COMPLETED"
	ActivityRoundCompleted    = "ROUND_COMPLETED"
)

// Activity is an append-only feed entry shown to the user as a notification
type Activity struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	Type        string         `json:"type" gorm:"size:30;index"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Data        datatypes.JSON `json:"data"`
	IsRead      bool           `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
}
