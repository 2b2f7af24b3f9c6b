package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/anonto42/discgolf/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type RoundRecorder interface {
	CompleteRound(ctx context.Context, userID uint, req models.CreateRoundRequest) (*services.RoundResult, error)
	CompleteGroupRound(ctx context.Context, ownerID uint, req models.CreateGroupRoundRequest) ([]*services.RoundResult, error)
}

// RoundHandler records scorecards and serves round history
type RoundHandler struct {
	rounds          RoundRecorder
	roundRepository repositories.RoundRepository
}

func NewRoundHandler(rounds RoundRecorder, roundRepo repositories.RoundRepository) *RoundHandler {
	return &RoundHandler{rounds: rounds, roundRepository: roundRepo}
}

func (h *RoundHandler) RegisterRoundRoutes(g *echo.Group) {
	g.POST("/rounds", h.CreateRound)
	g.POST("/rounds/group", h.CreateGroupRound)
	g.GET("/rounds", h.GetRounds)
	g.GET("/rounds/:id", h.GetRound)
}

// CreateRound saves the caller's round and reports achievements and goals it unlocked
func (h *RoundHandler) CreateRound(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateRoundRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.rounds.CompleteRound(c.Request().Context(), userID, req)
	if err != nil {
		return roundError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": result})
}

func (h *RoundHandler) CreateGroupRound(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGroupRoundRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	results, err := h.rounds.CompleteGroupRound(c.Request().Context(), userID, req)
	if err != nil {
		return roundError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"rounds": results}})
}

// GetRounds lists the caller's rounds, most recently played first
func (h *RoundHandler) GetRounds(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pagination(c)
	rounds, err := h.roundRepository.GetRoundsByUserID(c.Request().Context(), userID, int64((page-1)*limit), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"rounds": rounds},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit},
	})
}

func (h *RoundHandler) GetRound(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	round, err := h.roundRepository.GetRoundByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Round not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": round})
}

func roundError(err error) error {
	switch {
	case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrPlayerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidScorecard):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
