package models

import "time"

// Course is a disc golf course a round can be played on
type Course struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Location  string    `json:"location"`
	HoleCount int       `json:"hole_count" gorm:"not null;default:18"`
	Par       int       `json:"par"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCourseRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Location  string `json:"location" validate:"omitempty,max=200"`
	HoleCount int    `json:"hole_count" validate:"required,min=1,max=36"`
	Par       int    `json:"par" validate:"omitempty,min=1"`
}
