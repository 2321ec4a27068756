package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/expense-tracker/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's identity claims into the request context.  The provided
// secret must match the one used when issuing tokens.  This middleware should
// wrap protected routes so that handlers can access authenticated user
// information via `c.Get("user_id")`, `c.Get("username")` and `c.Get("email")`.
// Expired and malformed tokens both yield 401; the distinction is kept in the
// response message only, never in the status code.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, utils.ErrTokenExpired) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": msg})
			}

			// Store the identity claims in the context with concrete types so
			// handlers do not have to re-parse the token.
			c.Set("user_id", claims.UserID())
			c.Set("username", claims.Username)
			c.Set("email", claims.Email)
			return next(c)
		}
	}
}
