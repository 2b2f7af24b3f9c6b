package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

type GoalCreator interface {
	CreateGoal(ctx context.Context, userID uint, req models.CreateGoalRequest) (*models.Goal, error)
}

type GoalHandler struct {
	goals          GoalCreator
	goalRepository repositories.GoalRepository
}

func NewGoalHandler(goals GoalCreator, goalRepo repositories.GoalRepository) *GoalHandler {
	return &GoalHandler{goals: goals, goalRepository: goalRepo}
}

func (h *GoalHandler) RegisterGoalRoutes(g *echo.Group) {
	g.GET("/goals", h.GetGoals)
	g.POST("/goals", h.CreateGoal)
}

func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	goal, err := h.goals.CreateGoal(c.Request().Context(), userID, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": goal})
}

func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	goals, err := h.goalRepository.GetGoalsByUserID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"goals": goals}})
}
