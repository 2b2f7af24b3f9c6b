package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/discgolf/backend/internal/events"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidScorecard = errors.New("invalid scorecard")
)

type CourseLookup interface {
	GetCourseByID(ctx context.Context, id uint) (*models.Course, error)
}

type RoundWriter interface {
	CreateRound(ctx context.Context, round *models.Round) error
}

type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID uint) ([]models.AchievementDefinition, error)
}

type GoalProgressUpdater interface {
	UpdateProgress(ctx context.Context, userID uint) ([]models.Goal, error)
}

// RoundResult is a saved round plus whatever it unlocked for its player
type RoundResult struct {
	Round           *models.Round                  `json:"round"`
	NewAchievements []models.AchievementDefinition `json:"new_achievements"`
	CompletedGoals  []models.Goal                  `json:"completed_goals"`
}

// RoundService saves rounds and runs the post-round goal and achievement checks
type RoundService struct {
	courses      CourseLookup
	rounds       RoundWriter
	users        UserLookup
	activities   ActivityWriter
	goals        GoalProgressUpdater
	achievements AchievementEvaluator
	publisher    events.Publisher
	log          *logger.Logger
}

func NewRoundService(
	courses CourseLookup,
	rounds RoundWriter,
	users UserLookup,
	activities ActivityWriter,
	goals GoalProgressUpdater,
	achievements AchievementEvaluator,
	publisher events.Publisher,
	log *logger.Logger,
) *RoundService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &RoundService{
		courses:      courses,
		rounds:       rounds,
		users:        users,
		activities:   activities,
		goals:        goals,
		achievements: achievements,
		publisher:    publisher,
		log:          log.With("service", "RoundService"),
	}
}

// CompleteRound saves a single player's round. Goal and achievement failures are logged and never fail the save.
func (s *RoundService) CompleteRound(ctx context.Context, userID uint, req models.CreateRoundRequest) (_ *RoundResult, err error) {
	ctx, span := tracer.Start(ctx, "RoundService.CompleteRound", trace.WithAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.Int("course.id", int(req.CourseID)),
	))
	defer func() { endSpan(span, err) }()

	course, err := s.course(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := validateHoles(course, req.Holes); err != nil {
		return nil, err
	}

	round := buildRound(userID, course, req.Holes, req.Weather, req.PlayedAt)
	if req.InProgress {
		round.Status = models.RoundStatusInProgress
	}
	if err := s.rounds.CreateRound(ctx, round); err != nil {
		return nil, fmt.Errorf("save round: %w", err)
	}

	result := &RoundResult{Round: round, NewAchievements: []models.AchievementDefinition{}, CompletedGoals: []models.Goal{}}
	if round.Status == models.RoundStatusCompleted {
		s.afterRound(ctx, result)
	}
	return result, nil
}

// CompleteGroupRound saves one round per scorecard. The caller must hold one of the cards.
func (s *RoundService) CompleteGroupRound(ctx context.Context, ownerID uint, req models.CreateGroupRoundRequest) (_ []*RoundResult, err error) {
	ctx, span := tracer.Start(ctx, "RoundService.CompleteGroupRound", trace.WithAttributes(
		attribute.Int("user.id", int(ownerID)),
		attribute.Int("group.size", len(req.Cards)),
	))
	defer func() { endSpan(span, err) }()

	course, err := s.course(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(req.Cards))
	for _, card := range req.Cards {
		if seen[card.UserID] {
			return nil, fmt.Errorf("%w: player %d has more than one card", ErrInvalidScorecard, card.UserID)
		}
		seen[card.UserID] = true
		if err := validateHoles(course, card.Holes); err != nil {
			return nil, err
		}
		if _, err := s.users.GetUserByID(ctx, card.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, card.UserID)
			}
			return nil, fmt.Errorf("load player %d: %w", card.UserID, err)
		}
	}
	if !seen[ownerID] {
		return nil, fmt.Errorf("%w: group round must include your own card", ErrInvalidScorecard)
	}

	groupID := uuid.NewString()
	results := make([]*RoundResult, 0, len(req.Cards))
	for _, card := range req.Cards {
		round := buildRound(card.UserID, course, card.Holes, req.Weather, req.PlayedAt)
		round.GroupID = groupID
		if err := s.rounds.CreateRound(ctx, round); err != nil {
			return nil, fmt.Errorf("save round for player %d: %w", card.UserID, err)
		}
		results = append(results, &RoundResult{Round: round, NewAchievements: []models.AchievementDefinition{}, CompletedGoals: []models.Goal{}})
	}

	for _, result := range results {
		s.afterRound(ctx, result)
	}
	return results, nil
}

func (s *RoundService) course(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.courses.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %d: %w", id, err)
	}
	return course, nil
}

// afterRound updates goals before achievements so a goal finished by this round counts toward Goal Setter
func (s *RoundService) afterRound(ctx context.Context, result *RoundResult) {
	round := result.Round
	userID := round.UserID
	payload := map[string]any{
		"round_id":     round.ID.Hex(),
		"course_id":    round.CourseID,
		"score_to_par": round.ScoreToPar(),
	}

	if data, err := json.Marshal(payload); err == nil {
		activity := &models.Activity{
			UserID:      userID,
			Type:        models.ActivityRoundCompleted,
			Title:       "Round Completed: " + round.CourseName,
			Description: fmt.Sprintf("%d strokes, %s", round.TotalStrokes, formatScoreToPar(round.ScoreToPar())),
			Data:        datatypes.JSON(data),
		}
		if err := s.activities.CreateActivity(ctx, activity); err != nil {
			s.log.Error("round activity not recorded", "user_id", userID, "error", err)
		}
	}
	publish(ctx, s.publisher, s.log, events.TypeRoundCompleted, userID, payload)

	if completed, err := s.goals.UpdateProgress(ctx, userID); err != nil {
		s.log.Error("goal progress update failed", "user_id", userID, "error", err)
	} else {
		result.CompletedGoals = completed
	}

	if awarded, err := s.achievements.Evaluate(ctx, userID); err != nil {
		s.log.Error("achievement check failed", "user_id", userID, "error", err)
	} else {
		result.NewAchievements = awarded
	}
}

// formatScoreToPar renders -2 as "-2", 0 as "E" and 3 as "+3"
func formatScoreToPar(diff int) string {
	switch {
	case diff == 0:
		return "E"
	case diff > 0:
		return fmt.Sprintf("+%d", diff)
	default:
		return fmt.Sprintf("%d", diff)
	}
}

func validateHoles(course *models.Course, holes []models.HoleScore) error {
	if len(holes) == 0 {
		return fmt.Errorf("%w: no holes recorded", ErrInvalidScorecard)
	}
	seen := make(map[int]bool, len(holes))
	for _, h := range holes {
		if h.Hole < 1 || h.Hole > course.HoleCount {
			return fmt.Errorf("%w: hole %d is outside 1-%d", ErrInvalidScorecard, h.Hole, course.HoleCount)
		}
		if seen[h.Hole] {
			return fmt.Errorf("%w: hole %d recorded twice", ErrInvalidScorecard, h.Hole)
		}
		seen[h.Hole] = true
	}
	return nil
}

func buildRound(userID uint, course *models.Course, holes []models.HoleScore, weather *models.Weather, playedAt *time.Time) *models.Round {
	round := &models.Round{
		UserID:     userID,
		CourseID:   course.ID,
		CourseName: course.Name,
		Status:     models.RoundStatusCompleted,
		Holes:      append([]models.HoleScore(nil), holes...),
		Weather:    weather,
	}
	for _, h := range holes {
		round.TotalStrokes += h.Strokes
		round.TotalPar += h.Par
	}
	if playedAt != nil {
		round.PlayedAt = *playedAt
	}
	return round
}
