package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel comparisons
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/expense-tracker/internal/repository"
	"github.com/iliyamo/expense-tracker/internal/service"
)

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
	Users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	LoginIdentifier string `json:"loginIdentifier"`
	Password        string `json:"password"`
}

// Signup: create a user and return its public projection.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.Signup(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyField):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "username, email and password are required"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "username or email already exists"})
		default:
			c.Logger().Errorf("signup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "error during signup"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created successfully",
		"user":    user,
	})
}

// Login: verify credentials and return a signed access token. An
// unknown identifier and a wrong password produce the identical
// response so login cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.LoginIdentifier) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "loginIdentifier and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	token, user, err := h.Users.Login(ctx, req.LoginIdentifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownIdentifier), errors.Is(err, service.ErrBadCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "username, email or password is incorrect"})
		case errors.Is(err, service.ErrEmptyField):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "loginIdentifier and password are required"})
		default:
			c.Logger().Errorf("login failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":    token.Token,
		"message":  "login successful",
		"userData": user,
	})
}

// RetrieveUserData: return the caller's current profile. The lookup
// uses the email claim so the response reflects the store, not the
// possibly stale token payload.
func (h *AuthHandler) RetrieveUserData(c echo.Context) error {
	email := getClaimString(c, "email")
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The account was deleted after the token was issued.
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user data not found"})
		}
		c.Logger().Errorf("retrieve user data failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to retrieve user data"})
	}
	return c.JSON(http.StatusOK, user)
}
