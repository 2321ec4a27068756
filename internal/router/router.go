package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/iliyamo/expense-tracker/internal/handler"
	"github.com/iliyamo/expense-tracker/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check, usable by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints.  Signup and login
// are unauthenticated but sit behind the rate limiter so they cannot
// be used for password guessing at volume.  The protected profile
// endpoint requires a valid bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.POST("/signup", a.Signup, limiter)
	e.POST("/login", a.Login, limiter)

	e.GET("/retrieve-user-data", a.RetrieveUserData, middleware.JWTAuth(jwtSecret))
}

// RegisterUser registers the authenticated self-service profile
// endpoints under /user.
func RegisterUser(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/user", middleware.JWTAuth(jwtSecret))
	g.PATCH("/patch-username", u.PatchUsername)
	g.PATCH("/patch-email", u.PatchEmail)
	g.PATCH("/patch-password", u.PatchPassword)
	g.DELETE("/delete-account", u.DeleteAccount)
}

// RegisterExpenses registers the owner-scoped expense CRUD endpoints
// under /expenses.  All of them require a valid bearer token; the
// handlers scope every statement to the authenticated owner.
func RegisterExpenses(e *echo.Echo, x *handler.ExpenseHandler, jwtSecret string) {
	g := e.Group("/expenses", middleware.JWTAuth(jwtSecret))
	g.GET("/get-expenses", x.GetExpenses)
	g.POST("/add-expense", x.AddExpense)
	g.PUT("/modify-expense", x.ModifyExpense)
	g.DELETE("/remove-expense/:id", x.RemoveExpense)
}
