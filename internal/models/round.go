package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoundStatusInProgress = "in_progress"
	RoundStatusCompleted  = "completed"
)

// Round is a played round stored in MongoDB
type Round struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       uint               `json:"user_id" bson:"user_id"`
	CourseID     uint               `json:"course_id" bson:"course_id"`
	CourseName   string             `json:"course_name" bson:"course_name"`
	Status       string             `json:"status" bson:"status"`
	Holes        []HoleScore        `json:"holes" bson:"holes"`
	TotalStrokes int                `json:"total_strokes" bson:"total_strokes"`
	TotalPar     int                `json:"total_par" bson:"total_par"`
	Weather      *Weather           `json:"weather,omitempty" bson:"weather,omitempty"`
	GroupID      string             `json:"group_id,omitempty" bson:"group_id,omitempty"` // shared by rounds saved together
	PlayedAt     time.Time          `json:"played_at" bson:"played_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// ScoreToPar is strokes relative to par; negative is under par
func (r *Round) ScoreToPar() int {
	return r.TotalStrokes - r.TotalPar
}

type HoleScore struct {
	Hole    int `json:"hole" bson:"hole" validate:"required,min=1"`
	Par     int `json:"par" bson:"par" validate:"required,min=2,max=7"`
	Strokes int `json:"strokes" bson:"strokes" validate:"required,min=1,max=20"`
}

type Weather struct {
	TemperatureC float64 `json:"temperature_c" bson:"temperature_c"`
	WindKph      float64 `json:"wind_kph" bson:"wind_kph" validate:"min=0"`
	Conditions   string  `json:"conditions" bson:"conditions" validate:"max=50"`
}

// CreateRoundRequest defines the request body for recording a round
type CreateRoundRequest struct {
	CourseID   uint        `json:"course_id" validate:"required"`
	Holes      []HoleScore `json:"holes" validate:"required,min=1,dive"`
	Weather    *Weather    `json:"weather,omitempty" validate:"omitempty"`
	PlayedAt   *time.Time  `json:"played_at,omitempty"`
	InProgress bool        `json:"in_progress"`
}

// PlayerCard is one player's scorecard within a group round
type PlayerCard struct {
	UserID uint        `json:"user_id" validate:"required"`
	Holes  []HoleScore `json:"holes" validate:"required,min=1,dive"`
}

// CreateGroupRoundRequest records a round played together; every card becomes its own round
type CreateGroupRoundRequest struct {
	CourseID uint         `json:"course_id" validate:"required"`
	Weather  *Weather     `json:"weather,omitempty" validate:"omitempty"`
	PlayedAt *time.Time   `json:"played_at,omitempty"`
	Cards    []PlayerCard `json:"cards" validate:"required,min=2,max=6,dive"`
}
