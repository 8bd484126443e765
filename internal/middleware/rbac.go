package middleware

import (
	"fmt"
	"net/http"

	"rentalhub/internal/common"
	"rentalhub/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRoles admits only users whose role is in roles. It must run after
// AuthMiddleware.Protect.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := common.CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !allowed[user.Role] {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("User role '%s' is not authorized to access this route", user.Role))
			}
			return next(c)
		}
	}
}
