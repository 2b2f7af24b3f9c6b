package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anonto42/discgolf/backend/internal/achievements"
	"github.com/anonto42/discgolf/backend/internal/events"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"gorm.io/datatypes"
)

type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetOpenGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	SaveGoal(ctx context.Context, goal *models.Goal) error
}

var metricLabels = map[string]string{
	models.GoalMetricRoundsPlayed:  "rounds played",
	models.GoalMetricCoursesPlayed: "courses played",
	models.GoalMetricFriends:       "friends",
}

// GoalService keeps goal progress in line with the user's activity counters
type GoalService struct {
	goals      GoalStore
	snapshots  *SnapshotBuilder
	activities ActivityWriter
	publisher  events.Publisher
	log        *logger.Logger
	now        func() time.Time
}

func NewGoalService(goals GoalStore, snapshots *SnapshotBuilder, activities ActivityWriter, publisher events.Publisher, log *logger.Logger) *GoalService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &GoalService{
		goals:      goals,
		snapshots:  snapshots,
		activities: activities,
		publisher:  publisher,
		log:        log.With("service", "GoalService"),
		now:        time.Now,
	}
}

// CreateGoal stores a new goal and immediately brings its progress up to date. Nothing is stored when
// the counters cannot be read. A failed progress write after the insert is logged and left for the
// next UpdateProgress.
func (s *GoalService) CreateGoal(ctx context.Context, userID uint, req models.CreateGoalRequest) (*models.Goal, error) {
	snap, err := s.snapshots.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal := &models.Goal{
		UserID: userID,
		Title:  req.Title,
		Metric: req.Metric,
		Target: req.Target,
	}
	if err := s.goals.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	if _, err := s.apply(ctx, goal, snap); err != nil {
		s.log.Error("initial goal progress not saved", "goal_id", goal.ID, "user_id", userID, "error", err)
	}
	return goal, nil
}

// UpdateProgress recomputes every open goal of the user and returns the goals completed by this call
func (s *GoalService) UpdateProgress(ctx context.Context, userID uint) ([]models.Goal, error) {
	open, err := s.goals.GetOpenGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load open goals: %w", err)
	}
	completed := []models.Goal{}
	if len(open) == 0 {
		return completed, nil
	}

	snap, err := s.snapshots.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range open {
		done, err := s.apply(ctx, &open[i], snap)
		if err != nil {
			return completed, err
		}
		if done {
			completed = append(completed, open[i])
		}
	}
	return completed, nil
}

// apply moves the goal's progress to the snapshot value, completing it once the target is reached
func (s *GoalService) apply(ctx context.Context, goal *models.Goal, snap achievements.Snapshot) (bool, error) {
	value, ok := snap.MetricValue(goal.Metric)
	if !ok {
		s.log.Warn("goal has unknown metric", "goal_id", goal.ID, "metric", goal.Metric)
		return false, nil
	}

	progress := int(value)
	if progress > goal.Target {
		progress = goal.Target
	}
	reached := progress >= goal.Target
	if progress == goal.Progress && !reached {
		return false, nil
	}

	goal.Progress = progress
	if reached {
		now := s.now()
		goal.Completed = true
		goal.CompletedAt = &now
	}
	if err := s.goals.SaveGoal(ctx, goal); err != nil {
		return false, fmt.Errorf("save goal %d: %w", goal.ID, err)
	}
	if !reached {
		return false, nil
	}

	payload := map[string]any{"goal_id": goal.ID, "metric": goal.Metric, "target": goal.Target}
	data, err := json.Marshal(payload)
	if err != nil {
		return true, err
	}
	activity := &models.Activity{
		UserID:      goal.UserID,
		Type:        models.ActivityGoalCompleted,
		Title:       "Goal Completed: " + goal.Title,
		Description: fmt.Sprintf("Reached %d %s.", goal.Target, metricLabels[goal.Metric]),
		Data:        datatypes.JSON(data),
		CreatedAt:   *goal.CompletedAt,
	}
	if err := s.activities.CreateActivity(ctx, activity); err != nil {
		return true, fmt.Errorf("record activity for goal %d: %w", goal.ID, err)
	}
	publish(ctx, s.publisher, s.log, events.TypeGoalCompleted, goal.UserID, payload)
	return true, nil
}
