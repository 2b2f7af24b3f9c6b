package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/discgolf/backend/internal/achievements"
	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/anonto42/discgolf/backend/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AchievementRunner interface {
	Evaluate(ctx context.Context, userID uint) ([]models.AchievementDefinition, error)
	EvaluateAll(ctx context.Context) (*services.BatchReport, error)
	SeedCatalog(ctx context.Context) (int64, error)
}

// AchievementHandler serves the achievement catalog and triggers evaluations
type AchievementHandler struct {
	runner                AchievementRunner
	achievementRepository repositories.AchievementRepository
	userRepository        repositories.UserRepository
}

func NewAchievementHandler(runner AchievementRunner, achievementRepo repositories.AchievementRepository, userRepo repositories.UserRepository) *AchievementHandler {
	return &AchievementHandler{runner: runner, achievementRepository: achievementRepo, userRepository: userRepo}
}

func (h *AchievementHandler) RegisterAchievementRoutes(g *echo.Group) {
	g.GET("/achievements", h.GetAchievements)
	g.POST("/achievements/check", h.CheckAchievements)
	g.GET("/users/:id/achievements", h.GetUserAchievements)
}

// RegisterAdminRoutes expects a group already guarded by the admin middleware
func (h *AchievementHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/achievements/evaluate-all", h.EvaluateAll)
	g.POST("/achievements/seed", h.SeedCatalog)
}

// GetAchievements lists the whole catalog with the caller's earned flags
func (h *AchievementHandler) GetAchievements(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	statuses, err := h.statuses(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	earned, points := 0, 0
	for _, s := range statuses {
		if s.Earned {
			earned++
			points += s.Points
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"achievements": statuses,
			"earnedCount":  earned,
			"totalCount":   len(statuses),
			"totalPoints":  points,
		},
	})
}

// GetUserAchievements lists only what another user has earned
func (h *AchievementHandler) GetUserAchievements(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	statuses, err := h.statuses(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	earned := make([]models.AchievementStatus, 0, len(statuses))
	for _, s := range statuses {
		if s.Earned {
			earned = append(earned, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"achievements": earned}})
}

// CheckAchievements evaluates the caller now and returns what was newly awarded
func (h *AchievementHandler) CheckAchievements(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	awarded, err := h.runner.Evaluate(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"newAchievements": awarded,
			"awardedCount":    len(awarded),
		},
	})
}

func (h *AchievementHandler) EvaluateAll(c echo.Context) error {
	report, err := h.runner.EvaluateAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

func (h *AchievementHandler) SeedCatalog(c echo.Context) error {
	added, err := h.runner.SeedCatalog(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"added": added}})
}

// statuses joins the stored catalog with a user's awards. An unseeded database falls back to the built-in catalog.
func (h *AchievementHandler) statuses(ctx context.Context, userID uint) ([]models.AchievementStatus, error) {
	defs, err := h.achievementRepository.GetDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		defs = achievements.Catalog()
	}

	awards, err := h.achievementRepository.GetAwardsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[string]models.AchievementAward, len(awards))
	for _, a := range awards {
		earnedAt[a.AchievementName] = a
	}

	out := make([]models.AchievementStatus, 0, len(defs))
	for _, def := range defs {
		status := models.AchievementStatus{AchievementDefinition: def}
		if award, ok := earnedAt[def.Name]; ok {
			at := award.EarnedAt
			status.Earned = true
			status.EarnedAt = &at
		}
		out = append(out, status)
	}
	return out, nil
}
