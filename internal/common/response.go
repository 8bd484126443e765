package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope every endpoint replies with.
type Response struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Count     *int     `json:"count,omitempty"`
	Message   string   `json:"message,omitempty"`
	AvgRating *float64 `json:"avgRating,omitempty"`
}

// SendData writes a successful envelope with data.
func SendData(c echo.Context, status int, data any) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

// SendList writes a successful envelope with data and its item count.
func SendList[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, Response{Success: true, Data: items, Count: &n})
}

// SendMessage writes a successful envelope with only a message.
func SendMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// SendError writes a failure envelope.
func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Message: message})
}

// StatusAndMessage resolves the response status and client-safe message for
// err. Internal failures never expose their cause.
func StatusAndMessage(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	kind := KindOf(err)
	var appErr *AppError
	switch {
	case kind == KindInternal:
		return http.StatusInternalServerError, "Internal server error"
	case errors.As(err, &appErr):
		return kind.HTTPStatus(), appErr.Message
	default:
		return kind.HTTPStatus(), "service temporarily unavailable"
	}
}
