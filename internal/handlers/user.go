package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository     repositories.UserRepository
	activityRepository repositories.ActivityRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, activityRepo repositories.ActivityRepository) *UserHandler {
	return &UserHandler{
		userRepository:     userRepo,
		activityRepository: activityRepo,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(e *echo.Echo) {
	e.GET("/users", h.GetUsers)
	e.PATCH("/users/:id/preferences", h.UpdatePreferences)
	e.GET("/users/:id/activities", h.GetActivities)
}

// GetUsers lists every user
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// UpdatePreferences merges notification preferences into the user's map
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user ID")
	if err != nil {
		return err
	}

	var req models.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdatePreferences(c.Request().Context(), userID, req.Preferences)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// maxActivityPage bounds page so the computed skip cannot overflow
const maxActivityPage = 10000

// GetActivities returns a page of the user's activities, newest first
func (h *UserHandler) GetActivities(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user ID")
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if page > maxActivityPage {
		return echo.NewHTTPError(http.StatusBadRequest, "Page out of range")
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	skip := int64(page-1) * int64(limit)

	activities, err := h.activityRepository.GetActivitiesByUserID(c.Request().Context(), userID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, activities)
}
