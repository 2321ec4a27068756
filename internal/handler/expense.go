package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/expense-tracker/internal/repository"
	"github.com/iliyamo/expense-tracker/internal/service"
)

// ExpenseHandler serves the owner-scoped expense CRUD endpoints.
// Every operation takes the owner id from the verified token claims,
// so a request can only ever touch the caller's own records.
type ExpenseHandler struct {
	Expenses *service.ExpenseService
}

func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Expenses: expenses}
}

type addExpenseReq struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
}

type modifyExpenseReq struct {
	ID       uint64  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Notes    string  `json:"notes"`
}

// GetExpenses lists every expense owned by the caller, newest first.
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	expenses, err := h.Expenses.List(ctx, userID)
	if err != nil {
		c.Logger().Errorf("list expenses failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to fetch expenses"})
	}

	out := make([]expenseDTO, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseDTO(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"expenses": out})
}

// AddExpense records a new expense for the caller.
func (h *ExpenseHandler) AddExpense(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var req addExpenseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	spentOn, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	expense, err := h.Expenses.Create(ctx, userID, getClaimString(c, "username"), req.Amount, req.Category, spentOn, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyField):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "category and date are required"})
		case errors.Is(err, service.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "amount must be positive"})
		default:
			c.Logger().Errorf("add expense failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to add expense"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "expense added successfully",
		"expense": toExpenseDTO(expense),
	})
}

// ModifyExpense updates amount, category and notes of an owned
// expense. A non-owner gets the same 404 as a missing record.
func (h *ExpenseHandler) ModifyExpense(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	var req modifyExpenseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "expense id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Expenses.Update(ctx, req.ID, userID, req.Amount, req.Category, req.Notes); err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyField):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "category is required"})
		case errors.Is(err, service.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "amount must be positive"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "expense not found"})
		default:
			c.Logger().Errorf("modify expense failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to modify expense"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "expense modified successfully"})
}

// RemoveExpense deletes an owned expense by path id.
func (h *ExpenseHandler) RemoveExpense(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid expense id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Expenses.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "expense not found"})
		}
		c.Logger().Errorf("remove expense failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to remove expense"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "expense removed successfully"})
}
