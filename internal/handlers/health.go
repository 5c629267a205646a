package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// QueueInspector reports how many submissions are waiting for the fan-out worker
type QueueInspector interface {
	Pending() int
}

// HealthCheck returns a handler reporting liveness and the queue backlog
func HealthCheck(queue QueueInspector) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": "notifier",
			"pending": queue.Pending(),
		})
	}
}
