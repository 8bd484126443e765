package handlers

import (
	"log"
	"net/http"
	"time"

	"rentalhub/internal/caching"
	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/services"

	"github.com/labstack/echo/v4"
)

// LoginLimit caps login attempts per client IP within Window.
type LoginLimit struct {
	Attempts int
	Window   time.Duration
}

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService  services.AuthService
	cacheService caching.CacheService
	loginLimit   LoginLimit
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, cacheService caching.CacheService, loginLimit LoginLimit) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		cacheService: cacheService,
		loginLimit:   loginLimit,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates a tenant or agent account and signs it in.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, models.NewAuthResponse(user, tokens))
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cacheService != nil && h.loginLimit.Attempts > 0 {
		limited, err := h.cacheService.IsRateLimited(ctx, "login:"+c.RealIP(), h.loginLimit.Attempts, h.loginLimit.Window)
		if err != nil {
			log.Printf("WARN: login rate limit check failed: %v", err)
		} else if limited {
			return common.TooManyRequests("too many login attempts, please try again later")
		}
	}

	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, models.NewAuthResponse(user, tokens))
}

// Me returns the authenticated user.
func (h *AuthHandlers) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, user)
}

// Logout clears the stored refresh token. The presented access token stays
// valid until it expires.
func (h *AuthHandlers) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.authService.Revoke(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return common.SendMessage(c, "Logged out successfully")
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	refreshed, err := h.authService.RotateAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, refreshed)
}
