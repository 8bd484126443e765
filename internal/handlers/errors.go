package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"rentalhub/internal/common"
	"rentalhub/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as the failure envelope. Internal
// causes are logged, never returned.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if errors.Is(err, echo.ErrNotFound) {
		_ = common.SendError(c, http.StatusNotFound, "Route not found")
		return
	}

	status, message := common.StatusAndMessage(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	_ = common.SendError(c, status, message)
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return common.Validation("Invalid request format")
	}
	return nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// currentUser returns the user set by the authentication gate.
func currentUser(c echo.Context) (*models.User, error) {
	user, ok := common.CurrentUser(c)
	if !ok {
		return nil, common.Unauthenticated("not authorized to access this route")
	}
	return user, nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC).
func parseDate(value, field string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, common.Validation("%s is required", field)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, common.Validation("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field)
}
