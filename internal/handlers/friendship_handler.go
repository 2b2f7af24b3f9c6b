package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/anonto42/discgolf/backend/internal/services"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
	goals                services.GoalProgressUpdater
	achievements         services.AchievementEvaluator
	log                  *logger.Logger
}

// NewFriendshipHandler creates a new FriendshipHandler. Accepting a request re-runs goal and
// achievement checks for both users.
func NewFriendshipHandler(
	friendshipRepo repositories.FriendshipRepository,
	userRepo repositories.UserRepository,
	goals services.GoalProgressUpdater,
	achievements services.AchievementEvaluator,
	log *logger.Logger,
) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
		goals:                goals,
		achievements:         achievements,
		log:                  log,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingFriendRequests)
	g.PUT("/friends/request/:id/status", h.UpdateFriendRequestStatus)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.DeleteFriend)
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	senderID := getUserIDFromContext(c)
	if senderID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if senderID == req.ReceiverID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}
	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friendRequest := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
	}
	if err := h.friendshipRepository.SendFriendRequest(ctx, friendRequest); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusCreated, friendRequest)
}

// GetPendingFriendRequests retrieves pending friend requests for the authenticated user
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.friendshipRepository.GetUserPendingFriendRequests(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

// UpdateFriendRequestStatus accepts or rejects a pending request addressed to the caller
func (h *FriendshipHandler) UpdateFriendRequestStatus(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	friendRequest, err := h.friendshipRepository.GetFriendRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if friendRequest.ReceiverID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this friend request")
	}
	if friendRequest.Status != models.FriendStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Friend request is no longer pending")
	}

	if err := h.friendshipRepository.UpdateFriendRequestStatus(ctx, requestID, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	friendRequest.Status = req.Status

	if req.Status == models.FriendStatusAccepted {
		h.recheck(ctx, friendRequest.SenderID)
		h.recheck(ctx, friendRequest.ReceiverID)
	}
	return c.JSON(http.StatusOK, friendRequest)
}

// recheck refreshes goal progress and achievements after the friend count changed; failures are only logged
func (h *FriendshipHandler) recheck(ctx context.Context, userID uint) {
	if _, err := h.goals.UpdateProgress(ctx, userID); err != nil {
		h.log.Error("goal progress update failed", "user_id", userID, "error", err)
	}
	if _, err := h.achievements.Evaluate(ctx, userID); err != nil {
		h.log.Error("achievement check failed", "user_id", userID, "error", err)
	}
}

// GetFriends retrieves the list of friends for the authenticated user
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	friends, err := h.friendshipRepository.GetUserFriends(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, friends)
}

// DeleteFriend handles unfriending. Earned achievements are kept.
func (h *FriendshipHandler) DeleteFriend(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	friendID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	friendRequest, err := h.friendshipRepository.GetFriendRequestBetween(ctx, userID, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Friendship not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if friendRequest.Status != models.FriendStatusAccepted {
		return echo.NewHTTPError(http.StatusBadRequest, "Users are not friends")
	}

	if err := h.friendshipRepository.DeleteFriendRequest(ctx, friendRequest.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
