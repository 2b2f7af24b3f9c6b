package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/discgolf/backend/internal/middleware"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/anonto42/discgolf/backend/internal/services"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"github.com/anonto42/discgolf/backend/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

// memRounds keeps rounds in memory in place of MongoDB
type memRounds struct {
	mu     sync.Mutex
	rounds []models.Round
}

func (m *memRounds) CreateRound(_ context.Context, round *models.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	round.ID = primitive.NewObjectID()
	round.CreatedAt = time.Now()
	if round.PlayedAt.IsZero() {
		round.PlayedAt = round.CreatedAt
	}
	m.rounds = append(m.rounds, *round)
	return nil
}

func (m *memRounds) GetRoundByID(_ context.Context, id string) (*models.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rounds {
		if r.ID.Hex() == id {
			out := r
			return &out, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (m *memRounds) GetRoundsByUserID(_ context.Context, userID uint, skip, limit int64) ([]models.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Round{}
	for _, r := range m.rounds {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayedAt.After(out[j].PlayedAt) })
	if skip >= int64(len(out)) {
		return []models.Round{}, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRounds) CountCompletedRounds(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rounds {
		if r.UserID == userID && r.Status == models.RoundStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (m *memRounds) CountDistinctCourses(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[uint]bool{}
	for _, r := range m.rounds {
		if r.UserID == userID && r.Status == models.RoundStatusCompleted {
			seen[r.CourseID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *memRounds) DeleteByUserID(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rounds[:0]
	for _, r := range m.rounds {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	m.rounds = kept
	return nil
}

type testEnv struct {
	e      *echo.Echo
	db     *gorm.DB
	users  repositories.UserRepository
	rounds *memRounds
}

// newTestEnv wires every handler the way the router does, over SQLite and in-memory rounds
func newTestEnv(t *testing.T, verifier IDTokenVerifier) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.FriendRequest{}, &models.Goal{},
		&models.AchievementDefinition{}, &models.AchievementAward{}, &models.Activity{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.Nop()
	userRepo := repositories.NewPostgresUserRepository(db)
	courseRepo := repositories.NewPostgresCourseRepository(db)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db)
	goalRepo := repositories.NewPostgresGoalRepository(db)
	achievementRepo := repositories.NewPostgresAchievementRepository(db)
	activityRepo := repositories.NewPostgresActivityRepository(db)
	rounds := &memRounds{}

	snapshots := services.NewSnapshotBuilder(rounds, friendshipRepo, goalRepo)
	achievementSvc := services.NewAchievementService(userRepo, snapshots, achievementRepo, activityRepo, nil, log)
	goalSvc := services.NewGoalService(goalRepo, snapshots, activityRepo, nil, log)
	roundSvc := services.NewRoundService(courseRepo, rounds, userRepo, activityRepo, goalSvc, achievementSvc, nil, log)
	accountSvc := services.NewAccountService(userRepo, achievementRepo, activityRepo, goalRepo, friendshipRepo, rounds, log)
	if _, err := achievementSvc.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.GET("/health", HealthCheck)

	NewAuthHandler(userRepo, verifier, testSecret, log).RegisterAuthRoutes(e.Group("/api/v1/auth"))

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(testSecret))
	NewUserHandler(userRepo, accountSvc).RegisterProfileRoutes(api)
	NewCourseHandler(courseRepo).RegisterCourseRoutes(api)
	NewRoundHandler(roundSvc, rounds).RegisterRoundRoutes(api)
	NewFriendshipHandler(friendshipRepo, userRepo, goalSvc, achievementSvc, log).RegisterFriendshipRoutes(api)
	NewGoalHandler(goalSvc, goalRepo).RegisterGoalRoutes(api)
	NewActivityHandler(activityRepo).RegisterActivityRoutes(api)
	achievementHandler := NewAchievementHandler(achievementSvc, achievementRepo, userRepo)
	achievementHandler.RegisterAchievementRoutes(api)

	admin := api.Group("/admin", middleware.AdminOnly())
	achievementHandler.RegisterAdminRoutes(admin)

	return &testEnv{e: e, db: db, users: userRepo, rounds: rounds}
}

func (env *testEnv) createUser(t *testing.T, name string, admin bool) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", IsAdmin: admin}
	if err := env.users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:  u.ID,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// do sends a request and decodes a JSON object response; body may be nil
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	rec := env.request(t, method, path, token, body)
	out := map[string]interface{}{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, out
}

// dataOf returns the "data" object of an envelope response
func dataOf(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}

func fullCard(n int) []models.HoleScore {
	out := make([]models.HoleScore, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.HoleScore{Hole: i, Par: 3, Strokes: 3})
	}
	return out
}
