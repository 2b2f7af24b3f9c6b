package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/discgolf/backend/internal/events"
	"github.com/anonto42/discgolf/backend/internal/handlers"
	"github.com/anonto42/discgolf/backend/internal/middleware"
	"github.com/anonto42/discgolf/backend/internal/router"
	"github.com/anonto42/discgolf/backend/pkg/config"
	"github.com/anonto42/discgolf/backend/pkg/firebase"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"github.com/anonto42/discgolf/backend/pkg/tracing"
	"github.com/anonto42/discgolf/backend/validators"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

// run owns every resource opened at startup so its deferred cleanups execute on both
// failure and shutdown
func run(cfg *config.Config, log *logger.Logger) error {
	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}
	defer db.CloseDB()

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, log, tracing.Config{
		Enabled:     cfg.OtelEnabled,
		ServiceName: "discgolf-api",
		Environment: cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Firebase login is optional
	var authClient handlers.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
		if err != nil {
			return fmt.Errorf("initialize firebase: %w", err)
		}
		authClient = firebaseApp.AuthClient
	} else {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set, firebase login disabled")
	}

	publisher := events.NewNopPublisher()
	if cfg.RedisAddr != "" {
		publisher, err = events.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("publishing events to Redis", "channel", cfg.RedisChannel)
	}
	defer publisher.Close()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, log)
	e.Use(middleware.Tracing(otel.GetTracerProvider()))

	err = router.SetupRoutes(ctx, e, router.Deps{
		Config:     cfg,
		DB:         db,
		AuthClient: authClient,
		Publisher:  publisher,
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("set up routes: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	select {
	case <-done:
	case err := <-serverErr:
		return fmt.Errorf("server stopped: %w", err)
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
