package common

import (
	"context"
	"net/mail"
	"strings"

	"rentalhub/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const userContextKey contextKey = "user"

// echo context key under which the resolved user is stored
const currentUserKey = "currentUser"

// SetCurrentUser stores the authenticated user on both the echo context and
// the request context.
func SetCurrentUser(c echo.Context, user *models.User) {
	c.Set(currentUserKey, user)
	ctx := WithUser(c.Request().Context(), user)
	c.SetRequest(c.Request().WithContext(ctx))
}

// CurrentUser returns the user resolved by the authentication gate.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(currentUserKey).(*models.User)
	return user, ok && user != nil
}

// WithUser attaches user to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the user attached by WithUser, if any.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, Validation("%s is required", fieldName)
	}
	if len(idStr) != 36 {
		return uuid.Nil, Validation("%s must be a valid UUID", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, Validation("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return Validation("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength rejects values longer than maxLength characters.
func ValidateMaxLength(value, fieldName string, maxLength int) error {
	if len([]rune(value)) > maxLength {
		return Validation("%s cannot exceed %d characters", fieldName, maxLength)
	}
	return nil
}

// ValidateNonNegative validates that a numeric field is >= 0
func ValidateNonNegative[T int | float64](value T, fieldName string) error {
	if value < 0 {
		return Validation("%s cannot be negative", fieldName)
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Validation("email is invalid")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const maxSearchQueryLength = 100

// SanitizeSearchQuery strips LIKE wildcards from user input and keeps at
// most 100 characters.
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if runes := []rune(query); len(runes) > maxSearchQueryLength {
		query = string(runes[:maxSearchQueryLength])
	}
	return strings.TrimSpace(query)
}
