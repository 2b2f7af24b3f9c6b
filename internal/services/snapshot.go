package services

import (
	"context"
	"fmt"

	"github.com/anonto42/discgolf/backend/internal/achievements"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/anonto42/discgolf/backend/internal/services")

// endSpan closes span, marking it failed when err is non-nil
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type RoundCounter interface {
	CountCompletedRounds(ctx context.Context, userID uint) (int64, error)
	CountDistinctCourses(ctx context.Context, userID uint) (int64, error)
}

type FriendshipCounter interface {
	CountAcceptedFriendships(ctx context.Context, userID uint) (int64, error)
}

type GoalCounter interface {
	CountCompletedGoals(ctx context.Context, userID uint) (int64, error)
}

// SnapshotBuilder derives a user's activity counters from the stores that own them
type SnapshotBuilder struct {
	rounds  RoundCounter
	friends FriendshipCounter
	goals   GoalCounter
}

func NewSnapshotBuilder(rounds RoundCounter, friends FriendshipCounter, goals GoalCounter) *SnapshotBuilder {
	return &SnapshotBuilder{rounds: rounds, friends: friends, goals: goals}
}

// Build reads the four counters concurrently. Nothing is cached between calls.
func (b *SnapshotBuilder) Build(ctx context.Context, userID uint) (snap achievements.Snapshot, err error) {
	ctx, span := tracer.Start(ctx, "SnapshotBuilder.Build", trace.WithAttributes(attribute.Int("user.id", int(userID))))
	defer func() { endSpan(span, err) }()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := b.rounds.CountCompletedRounds(gctx, userID)
		if err != nil {
			return fmt.Errorf("count rounds: %w", err)
		}
		snap.RoundsPlayed = n
		return nil
	})
	g.Go(func() error {
		n, err := b.rounds.CountDistinctCourses(gctx, userID)
		if err != nil {
			return fmt.Errorf("count distinct courses: %w", err)
		}
		snap.DistinctCoursesPlayed = n
		return nil
	})
	g.Go(func() error {
		n, err := b.friends.CountAcceptedFriendships(gctx, userID)
		if err != nil {
			return fmt.Errorf("count friendships: %w", err)
		}
		snap.AcceptedFriendships = n
		return nil
	})
	g.Go(func() error {
		n, err := b.goals.CountCompletedGoals(gctx, userID)
		if err != nil {
			return fmt.Errorf("count completed goals: %w", err)
		}
		snap.CompletedGoals = n
		return nil
	})

	if err = g.Wait(); err != nil {
		return achievements.Snapshot{}, err
	}
	span.SetAttributes(
		attribute.Int64("snapshot.rounds_played", snap.RoundsPlayed),
		attribute.Int64("snapshot.distinct_courses", snap.DistinctCoursesPlayed),
	)
	return snap, nil
}
