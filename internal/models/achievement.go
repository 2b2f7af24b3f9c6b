package models

import "time"

// AchievementDefinition is an entry of the achievement catalog. Name is the unique key.
type AchievementDefinition struct {
	Name         string    `json:"name" gorm:"primaryKey;size:100"`
	Description  string    `json:"description" gorm:"not null"`
	Category     string    `json:"category" gorm:"not null;index"` // rounds, exploration, social, goals
	CriteriaText string    `json:"criteria_text"`
	Points       int       `json:"points" gorm:"default:0"`
	Icon         string    `json:"icon"`
	CreatedAt    time.Time `json:"created_at"`
}

// AchievementAward records that a user earned a definition. At most one per (user, definition).
type AchievementAward struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_award_user_achievement"`
	AchievementName string    `json:"achievement_name" gorm:"size:100;not null;uniqueIndex:idx_award_user_achievement"`
	EarnedAt        time.Time `json:"earned_at"`
}

// AchievementStatus is a catalog entry annotated with the caller's progress
type AchievementStatus struct {
	AchievementDefinition
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}
