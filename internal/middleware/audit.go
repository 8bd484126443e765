package middleware

import (
	"log"
	"net/http"
	"strings"

	"rentalhub/internal/common"

	"github.com/labstack/echo/v4"
)

// AuditMiddleware records every request that ends in 401 or 403.
type AuditMiddleware struct {
	logf func(format string, args ...any)
}

// NewAuditMiddleware creates a new audit middleware instance
func NewAuditMiddleware() *AuditMiddleware {
	return &AuditMiddleware{logf: log.Printf}
}

// AuditAccess logs denied requests after the handler chain has run.
func (m *AuditMiddleware) AuditAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status, _ = common.StatusAndMessage(err)
			}
			if status != http.StatusUnauthorized && status != http.StatusForbidden {
				return err
			}

			userID := "anonymous"
			if user, ok := common.CurrentUser(c); ok {
				userID = user.ID.String()
			}
			m.logf("AUDIT: access denied status=%d user=%s method=%s path=%s ip=%s auth=%s",
				status, userID, c.Request().Method, c.Request().URL.Path, c.RealIP(),
				sanitizeAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)))
			return err
		}
	}
}

// sanitizeAuthHeader reports the auth scheme without the credential.
func sanitizeAuthHeader(header string) string {
	if header == "" {
		return "none"
	}
	scheme, _, _ := strings.Cut(header, " ")
	return scheme + " [REDACTED]"
}
