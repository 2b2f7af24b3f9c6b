package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeAchievementEarned = "achievement.earned"
	TypeGoalCompleted     = "goal.completed"
	TypeRoundCompleted    = "round.completed"
)

// Event is a domain event fanned out to realtime subscribers
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	UserID    uint            `json:"user_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent builds an event with a fresh ID, marshalling payload to JSON
func NewEvent(eventType string, userID uint, payload any) (Event, error) {
	ev := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		ev.Payload = raw
	}
	return ev, nil
}

// Publisher delivers events to subscribers
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
