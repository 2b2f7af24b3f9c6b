package router

import (
	"context"
	"fmt"

	"github.com/anonto42/discgolf/backend/internal/events"
	"github.com/anonto42/discgolf/backend/internal/handlers"
	"github.com/anonto42/discgolf/backend/internal/middleware"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/anonto42/discgolf/backend/internal/services"
	"github.com/anonto42/discgolf/backend/pkg/config"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// Deps are the external resources the routes are built on. AuthClient may be nil.
type Deps struct {
	Config     *config.Config
	DB         *config.DB
	AuthClient handlers.IDTokenVerifier
	Publisher  events.Publisher
	Log        *logger.Logger
}

// SetupRoutes migrates storage, wires repositories, services and handlers, and registers every route
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Deps) error {
	cfg, log := deps.Config, deps.Log
	pgdb := deps.DB.Postgres
	mongoDB := deps.DB.Mongo.Database(cfg.MongoDatabase)

	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.FriendRequest{},
		&models.Goal{},
		&models.AchievementDefinition{},
		&models.AchievementAward{},
		&models.Activity{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("PostgreSQL auto-migrations completed")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	courseRepo := repositories.NewPostgresCourseRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	goalRepo := repositories.NewPostgresGoalRepository(pgdb)
	achievementRepo := repositories.NewPostgresAchievementRepository(pgdb)
	activityRepo := repositories.NewPostgresActivityRepository(pgdb)
	roundRepo := repositories.NewMongoRoundRepository(mongoDB)
	if err := roundRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("round indexes: %w", err)
	}

	// --- Services ---
	snapshots := services.NewSnapshotBuilder(roundRepo, friendshipRepo, goalRepo)
	achievementService := services.NewAchievementService(userRepo, snapshots, achievementRepo, activityRepo, deps.Publisher, log)
	goalService := services.NewGoalService(goalRepo, snapshots, activityRepo, deps.Publisher, log)
	roundService := services.NewRoundService(courseRepo, roundRepo, userRepo, activityRepo, goalService, achievementService, deps.Publisher, log)
	accountService := services.NewAccountService(userRepo, achievementRepo, activityRepo, goalRepo, friendshipRepo, roundRepo, log)

	if cfg.SeedAchievements {
		if _, err := achievementService.SeedCatalog(ctx); err != nil {
			return err
		}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, deps.AuthClient, cfg.JWTSecret, log)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	handlers.NewUserHandler(userRepo, accountService).RegisterProfileRoutes(api)
	handlers.NewCourseHandler(courseRepo).RegisterCourseRoutes(api)
	handlers.NewRoundHandler(roundService, roundRepo).RegisterRoundRoutes(api)
	handlers.NewFriendshipHandler(friendshipRepo, userRepo, goalService, achievementService, log).RegisterFriendshipRoutes(api)
	handlers.NewGoalHandler(goalService, goalRepo).RegisterGoalRoutes(api)
	handlers.NewActivityHandler(activityRepo).RegisterActivityRoutes(api)

	achievementHandler := handlers.NewAchievementHandler(achievementService, achievementRepo, userRepo)
	achievementHandler.RegisterAchievementRoutes(api)

	admin := api.Group("/admin", middleware.AdminOnly())
	achievementHandler.RegisterAdminRoutes(admin)

	log.Info("all routes configured", "routes", len(e.Routes()))
	return nil
}
