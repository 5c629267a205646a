package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes. The path
// parameter is a user id for GET and a notification id for PATCH.
func (h *NotificationHandler) RegisterNotificationRoutes(e *echo.Echo) {
	e.GET("/notifications/:id", h.GetNotifications)
	e.GET("/notifications/:id/unread-count", h.GetUnreadCount)
	e.PATCH("/notifications/:id", h.UpdateReadStatus)
}

// GetNotifications returns the user's notifications newest first and marks them read
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user ID")
	if err != nil {
		return err
	}

	notifications, err := h.notificationRepository.FetchForReceiver(c.Request().Context(), userID, c.QueryParam("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user ID")
	if err != nil {
		return err
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// UpdateReadStatus sets isRead on one notification
func (h *NotificationHandler) UpdateReadStatus(c echo.Context) error {
	notificationID, err := parseIDParam(c, "id", "notification ID")
	if err != nil {
		return err
	}

	var req models.UpdateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	notification, err := h.notificationRepository.UpdateReadStatus(c.Request().Context(), notificationID, *req.IsRead)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notification)
}
