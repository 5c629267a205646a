package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-midea/notifier/internal/fanout"
	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// FollowHandler handles follow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	queue            SubmissionQueue
	log              zerolog.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, queue SubmissionQueue, log zerolog.Logger) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		queue:            queue,
		log:              log,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(e *echo.Echo) {
	e.POST("/follow", h.FollowUser)
}

// FollowUser records follower -> followee and queues the follow notification
func (h *FollowHandler) FollowUser(c echo.Context) error {
	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.FollowerID != 0 && req.FollowerID == req.FolloweeID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	for _, id := range []uint{req.FollowerID, req.FolloweeID} {
		if _, err := h.userRepository.GetUserByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "User not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	// Check if already following
	isFollowing, err := h.followRepository.IsFollowing(ctx, req.FollowerID, req.FolloweeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	follow := &models.Follow{
		FollowerID: req.FollowerID,
		FolloweeID: req.FolloweeID,
	}
	if err := h.followRepository.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, repositories.ErrDuplicateFollow) {
			return echo.NewHTTPError(http.StatusConflict, "Already following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.queue.Enqueue(fanout.EventSubmission{
		Type:     fanout.TypeFollow,
		ActorID:  follow.FollowerID,
		TargetID: follow.FolloweeID,
	}); err != nil {
		// The follow is stored; only its notification is lost.
		h.log.Error().Err(err).Uint("follow_id", follow.ID).Msg("failed to enqueue follow event")
	}

	return c.JSON(http.StatusCreated, follow)
}
