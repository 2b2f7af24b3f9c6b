package services

import (
	"context"
	"errors"
	"sync"

	"github.com/anonto42/discgolf/backend/internal/events"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"gorm.io/gorm"
)

// fakeStore backs every narrow interface the services depend on with in-memory maps
type fakeStore struct {
	mu sync.Mutex

	users       map[uint]*models.User
	rounds      map[uint]int64
	courses     map[uint]int64
	friends     map[uint]int64
	doneGoals   map[uint]int64
	awards      map[uint]map[string]bool
	activities  []models.Activity
	goals       []models.Goal
	savedRounds []models.Round

	failSnapshotFor map[uint]error
	usersErr        error
	createAwardErr  error
	saveGoalErr     error
	deleted         []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:           map[uint]*models.User{},
		rounds:          map[uint]int64{},
		courses:         map[uint]int64{},
		friends:         map[uint]int64{},
		doneGoals:       map[uint]int64{},
		awards:          map[uint]map[string]bool{},
		failSnapshotFor: map[uint]error{},
	}
}

func (f *fakeStore) addUser(id uint, name string) {
	f.users[id] = &models.User{ID: id, Name: name}
}

func (f *fakeStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUsers(context.Context) ([]models.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	out := []models.User{}
	for id := uint(1); id <= uint(len(f.users)); id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeStore) CountCompletedRounds(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSnapshotFor[userID]; err != nil {
		return 0, err
	}
	return f.rounds[userID], nil
}

func (f *fakeStore) CountDistinctCourses(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[userID], nil
}

func (f *fakeStore) CountAcceptedFriendships(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.friends[userID], nil
}

func (f *fakeStore) CountCompletedGoals(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doneGoals[userID], nil
}

func (f *fakeStore) SeedDefinitions(_ context.Context, defs []models.AchievementDefinition) (int64, error) {
	return int64(len(defs)), nil
}

func (f *fakeStore) HasAward(_ context.Context, userID uint, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.awards[userID][name], nil
}

func (f *fakeStore) CreateAward(_ context.Context, award *models.AchievementAward) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAwardErr != nil {
		return f.createAwardErr
	}
	if f.awards[award.UserID] == nil {
		f.awards[award.UserID] = map[string]bool{}
	}
	if f.awards[award.UserID][award.AchievementName] {
		return repositories.ErrAlreadyAwarded
	}
	f.awards[award.UserID][award.AchievementName] = true
	return nil
}

func (f *fakeStore) awardCount() int {
	n := 0
	for _, m := range f.awards {
		n += len(m)
	}
	return n
}

func (f *fakeStore) CreateActivity(_ context.Context, activity *models.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, *activity)
	return nil
}

func (f *fakeStore) CreateGoal(_ context.Context, goal *models.Goal) error {
	goal.ID = uint(len(f.goals) + 1)
	f.goals = append(f.goals, *goal)
	return nil
}

func (f *fakeStore) GetOpenGoals(_ context.Context, userID uint) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range f.goals {
		if g.UserID == userID && !g.Completed {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveGoal(_ context.Context, goal *models.Goal) error {
	if f.saveGoalErr != nil {
		return f.saveGoalErr
	}
	for i := range f.goals {
		if f.goals[i].ID == goal.ID {
			f.goals[i] = *goal
			if goal.Completed {
				f.doneGoals[goal.UserID]++
			}
			return nil
		}
	}
	return errors.New("goal not found")
}

func (f *fakeStore) CreateRound(_ context.Context, round *models.Round) error {
	f.savedRounds = append(f.savedRounds, *round)
	if round.Status == models.RoundStatusCompleted {
		f.rounds[round.UserID]++
		f.courses[round.UserID] = 1
	}
	return nil
}

func (f *fakeStore) GetCourseByID(_ context.Context, id uint) (*models.Course, error) {
	if id != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Course{ID: 1, Name: "Maple Hill", HoleCount: 18, Par: 54}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type deleteRecorder struct {
	name  string
	store *fakeStore
	err   error
}

func (d deleteRecorder) DeleteByUserID(_ context.Context, _ uint) error {
	if d.err != nil {
		return d.err
	}
	d.store.deleted = append(d.store.deleted, d.name)
	return nil
}

func (d deleteRecorder) DeleteAwardsByUserID(ctx context.Context, userID uint) error {
	return d.DeleteByUserID(ctx, userID)
}

func (d deleteRecorder) DeleteUser(ctx context.Context, userID uint) error {
	return d.DeleteByUserID(ctx, userID)
}
