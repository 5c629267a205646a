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

// ActivityHandler handles activity publishing
type ActivityHandler struct {
	activityRepository repositories.ActivityRepository
	userRepository     repositories.UserRepository
	queue              SubmissionQueue
	log                zerolog.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityRepo repositories.ActivityRepository, userRepo repositories.UserRepository, queue SubmissionQueue, log zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityRepository: activityRepo,
		userRepository:     userRepo,
		queue:              queue,
		log:                log,
	}
}

// RegisterActivityRoutes registers activity routes
func (h *ActivityHandler) RegisterActivityRoutes(e *echo.Echo) {
	e.POST("/activity", h.CreateActivity)
}

// CreateActivity stores the activity and queues its fan-out to the user's followers
func (h *ActivityHandler) CreateActivity(c echo.Context) error {
	var req models.CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	activity := &models.Activity{
		UserID:  req.UserID,
		Type:    req.Type,
		Content: req.Content,
	}
	if err := h.activityRepository.CreateActivity(ctx, activity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.queue.Enqueue(fanout.EventSubmission{
		Type:    activity.Type,
		ActorID: activity.UserID,
		Content: activity.Content,
	}); err != nil {
		h.log.Error().Err(err).Str("activity_id", activity.ID.Hex()).Msg("failed to enqueue activity event")
	}

	return c.JSON(http.StatusCreated, activity)
}
