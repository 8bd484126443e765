package handlers

import (
	"net/http"

	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles user-related HTTP requests
type UserHandlers struct {
	userService services.UserService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return common.SendList(c, users)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, user)
}

// UpdateUser applies an admin edit of name, email, role and isActive.
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.UserUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	// avatar is self-service only
	req.Avatar = nil

	user, err := h.userService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return common.SendMessage(c, "User deleted successfully")
}

// UpdateProfile lets the caller edit their own name, email and avatar.
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.UserUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), caller, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, user)
}
