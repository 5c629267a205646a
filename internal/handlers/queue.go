package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-midea/notifier/internal/fanout"
	"github.com/labstack/echo/v4"
)

// SubmissionQueue accepts events for asynchronous fan-out
type SubmissionQueue interface {
	Enqueue(sub fanout.EventSubmission) error
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label)
	}
	return uint(id), nil
}
