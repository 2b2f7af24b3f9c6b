package models

import "time"

// Goal metrics map onto the activity snapshot counters
const (
	GoalMetricRoundsPlayed  = "rounds_played"
	GoalMetricCoursesPlayed = "courses_played"
	GoalMetricFriends       = "friends"
)

type Goal struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Metric      string     `json:"metric" gorm:"size:30;not null"`
	Target      int        `json:"target" gorm:"not null"`
	Progress    int        `json:"progress" gorm:"default:0"`
	Completed   bool       `json:"completed" gorm:"default:false;index"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateGoalRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=120"`
	Metric string `json:"metric" validate:"required,oneof=rounds_played courses_played friends"`
	Target int    `json:"target" validate:"required,min=1"`
}
