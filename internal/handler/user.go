package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expense-tracker/internal/repository"
	"github.com/iliyamo/expense-tracker/internal/service"
)

// UserHandler serves the authenticated self-service profile
// endpoints: renaming, email change, password change and account
// deletion. The caller's identity always comes from the verified
// token claims, never from the request body.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

type patchUsernameReq struct {
	NewUsername string `json:"newUsername"`
}
type patchEmailReq struct {
	NewEmail string `json:"newEmail"`
}
type patchPasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PatchUsername renames the calling user.
func (h *UserHandler) PatchUsername(c echo.Context) error {
	var req patchUsernameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	current := getClaimString(c, "username")
	if current == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.PatchUsername(ctx, current, req.NewUsername); err != nil {
		return mapPatchError(c, err, "username")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "username updated successfully"})
}

// PatchEmail changes the calling user's email. The endpoint stays
// exposed even though the reference client treats email as
// display-only; it is part of the external contract.
func (h *UserHandler) PatchEmail(c echo.Context) error {
	var req patchEmailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	username := getClaimString(c, "username")
	if username == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.PatchEmail(ctx, req.NewEmail, username); err != nil {
		return mapPatchError(c, err, "email")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "email updated successfully"})
}

// PatchPassword replaces the stored hash after verifying the current
// password.
func (h *UserHandler) PatchPassword(c echo.Context) error {
	var req patchPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	email := getClaimString(c, "email")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.PatchPassword(ctx, userID, email, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyField):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "current and new password are required"})
		case errors.Is(err, service.ErrBadCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "current password is incorrect"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			c.Logger().Errorf("patch password failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update password"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}

// DeleteAccount removes the calling user together with every expense
// they own.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.DeleteAccount(ctx, userID); err != nil {
		c.Logger().Errorf("delete account failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete account"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}

// mapPatchError translates the shared failure modes of the username
// and email patches into HTTP responses.
func mapPatchError(c echo.Context, err error, field string) error {
	switch {
	case errors.Is(err, service.ErrEmptyField):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "new " + field + " is required"})
	case errors.Is(err, service.ErrNoChange):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "new " + field + " matches the current one"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"message": field + " already taken"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	default:
		c.Logger().Errorf("patch %s failed: %v", field, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update " + field})
	}
}
