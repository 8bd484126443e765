package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	HeaderAPIVersion = "X-API-Version"
	HeaderAPIMessage = "X-API-Message"
)

// VersionHeader stamps API responses with the served version. A non-empty
// message is sent alongside it, e.g. a deprecation notice.
func VersionHeader(version, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(HeaderAPIVersion, version)
			if message != "" {
				c.Response().Header().Set(HeaderAPIMessage, message)
			}
			return next(c)
		}
	}
}
