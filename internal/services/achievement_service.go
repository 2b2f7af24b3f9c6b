package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/discgolf/backend/internal/achievements"
	"github.com/anonto42/discgolf/backend/internal/events"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
}

type AwardStore interface {
	SeedDefinitions(ctx context.Context, defs []models.AchievementDefinition) (int64, error)
	HasAward(ctx context.Context, userID uint, name string) (bool, error)
	CreateAward(ctx context.Context, award *models.AchievementAward) error
}

type ActivityWriter interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
}

// UserEvaluation is one user's entry in a batch report. Error is set instead of the award fields when
// that user's evaluation failed.
type UserEvaluation struct {
	UserID       uint     `json:"user_id"`
	Username     string   `json:"username"`
	AwardedCount int      `json:"awarded_count"`
	Achievements []string `json:"achievements,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type BatchReport struct {
	TotalUsers int              `json:"total_users"`
	Results    []UserEvaluation `json:"results"`
}

// AchievementService awards catalog achievements whose rules a user's snapshot satisfies
type AchievementService struct {
	users      UserLookup
	snapshots  *SnapshotBuilder
	awards     AwardStore
	activities ActivityWriter
	publisher  events.Publisher
	log        *logger.Logger
	now        func() time.Time
}

func NewAchievementService(
	users UserLookup,
	snapshots *SnapshotBuilder,
	awards AwardStore,
	activities ActivityWriter,
	publisher events.Publisher,
	log *logger.Logger,
) *AchievementService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &AchievementService{
		users:      users,
		snapshots:  snapshots,
		awards:     awards,
		activities: activities,
		publisher:  publisher,
		log:        log.With("service", "AchievementService"),
		now:        time.Now,
	}
}

// SeedCatalog stores any catalog definitions missing from the database
func (s *AchievementService) SeedCatalog(ctx context.Context) (int64, error) {
	added, err := s.awards.SeedDefinitions(ctx, achievements.Catalog())
	if err != nil {
		return 0, fmt.Errorf("seed achievement catalog: %w", err)
	}
	if added > 0 {
		s.log.Info("seeded achievement definitions", "added", added)
	}
	return added, nil
}

// Evaluate awards every rule the user newly satisfies and returns the definitions awarded by this call.
// An unknown user yields an empty list and no writes.
func (s *AchievementService) Evaluate(ctx context.Context, userID uint) (awarded []models.AchievementDefinition, err error) {
	ctx, span := tracer.Start(ctx, "AchievementService.Evaluate", trace.WithAttributes(attribute.Int("user.id", int(userID))))
	defer func() {
		span.SetAttributes(attribute.Int("achievements.awarded", len(awarded)))
		endSpan(span, err)
	}()

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.AchievementDefinition{}, nil
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return s.evaluateUser(ctx, userID)
}

// EvaluateAll runs the evaluator for every user in turn. A failing user is reported in its own entry
// and does not stop the batch.
func (s *AchievementService) EvaluateAll(ctx context.Context) (report *BatchReport, err error) {
	ctx, span := tracer.Start(ctx, "AchievementService.EvaluateAll")
	defer func() { endSpan(span, err) }()

	users, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	report = &BatchReport{
		TotalUsers: len(users),
		Results:    make([]UserEvaluation, 0, len(users)),
	}
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		entry := UserEvaluation{UserID: user.ID, Username: user.Name}
		awarded, evalErr := s.safeEvaluate(ctx, user.ID)
		if evalErr != nil {
			s.log.Warn("achievement evaluation failed", "user_id", user.ID, "error", evalErr)
			entry.Error = evalErr.Error()
		} else {
			entry.AwardedCount = len(awarded)
			entry.Achievements = make([]string, 0, len(awarded))
			for _, def := range awarded {
				entry.Achievements = append(entry.Achievements, def.Name)
			}
		}
		report.Results = append(report.Results, entry)
	}

	span.SetAttributes(attribute.Int("batch.users", report.TotalUsers))
	s.log.Info("batch achievement evaluation finished", "users", report.TotalUsers)
	return report, nil
}

func (s *AchievementService) safeEvaluate(ctx context.Context, userID uint) (awarded []models.AchievementDefinition, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.evaluateUser(ctx, userID)
}

func (s *AchievementService) evaluateUser(ctx context.Context, userID uint) ([]models.AchievementDefinition, error) {
	snap, err := s.snapshots.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	awarded := []models.AchievementDefinition{}
	for _, rule := range achievements.Satisfied(snap) {
		ok, err := s.award(ctx, userID, rule)
		if err != nil {
			return awarded, err
		}
		if ok {
			awarded = append(awarded, rule.Definition)
		}
	}
	return awarded, nil
}

// award stores the award and its activity entry. It reports false when the user already holds the rule.
func (s *AchievementService) award(ctx context.Context, userID uint, rule achievements.Rule) (bool, error) {
	has, err := s.awards.HasAward(ctx, userID, rule.Key())
	if err != nil {
		return false, fmt.Errorf("check award %q: %w", rule.Key(), err)
	}
	if has {
		return false, nil
	}

	award := &models.AchievementAward{
		UserID:          userID,
		AchievementName: rule.Key(),
		EarnedAt:        s.now(),
	}
	if err := s.awards.CreateAward(ctx, award); err != nil {
		if errors.Is(err, repositories.ErrAlreadyAwarded) {
			// lost a race with a concurrent evaluation
			s.log.Debug("award already present", "user_id", userID, "achievement", rule.Key())
			return false, nil
		}
		return false, fmt.Errorf("create award %q: %w", rule.Key(), err)
	}

	def := rule.Definition
	payload := map[string]any{
		"achievement": def.Name,
		"category":    def.Category,
		"points":      def.Points,
		"icon":        def.Icon,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}
	activity := &models.Activity{
		UserID:      userID,
		Type:        models.ActivityAchievementEarned,
		Title:       "Achievement Unlocked: " + def.Name,
		Description: def.Description,
		Data:        datatypes.JSON(data),
		CreatedAt:   award.EarnedAt,
	}
	if err := s.activities.CreateActivity(ctx, activity); err != nil {
		return false, fmt.Errorf("record activity for %q: %w", def.Name, err)
	}

	s.log.Info("achievement awarded", "user_id", userID, "achievement", def.Name, "points", def.Points)
	publish(ctx, s.publisher, s.log, events.TypeAchievementEarned, userID, payload)
	return true, nil
}

// publish fans an event out; delivery failures are logged only
func publish(ctx context.Context, p events.Publisher, log *logger.Logger, eventType string, userID uint, payload any) {
	ev, err := events.NewEvent(eventType, userID, payload)
	if err == nil {
		err = p.Publish(ctx, ev)
	}
	if err != nil {
		log.Warn("publish event failed", "type", eventType, "user_id", userID, "error", err)
	}
}
