package middleware

import (
	"net/http"

	"rentalhub/internal/common"
	"rentalhub/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// claimsContextKey is where echo-jwt stores the verified claims.
const claimsContextKey = "tokenClaims"

var errNotAuthorized = echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")

// AuthMiddleware verifies bearer access tokens and resolves them to an
// active user.
type AuthMiddleware struct {
	authService services.AuthService
}

func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Protect rejects the request with 401 unless a valid access token names an
// active user.
func (m *AuthMiddleware) Protect() echo.MiddlewareFunc {
	return m.chain(false)
}

// OptionalAuth resolves the user when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return m.chain(true)
}

func (m *AuthMiddleware) chain(optional bool) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return m.authService.ValidateAccessToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			return errNotAuthorized
		},
		ContinueOnIgnoredError: optional,
	})
	resolve := m.resolveUser(optional)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(resolve(next))
	}
}

func (m *AuthMiddleware) resolveUser(optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*services.TokenClaims)
			if !ok {
				if optional {
					return next(c)
				}
				return errNotAuthorized
			}

			user, err := m.authService.ResolveUser(c.Request().Context(), claims)
			if err != nil {
				if optional && common.IsKind(err, common.KindUnauthenticated) {
					return next(c)
				}
				return err
			}

			common.SetCurrentUser(c, user)
			return next(c)
		}
	}
}
