package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"time"

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/expense-tracker/internal/model"
)

// dateLayout is the wire format for expense dates.
const dateLayout = "2006-01-02"

// dbTimeout bounds every per-request database operation.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getClaimString reads a string claim the JWT middleware stored in
// the context, returning "" when absent.
func getClaimString(c echo.Context, key string) string {
	if s, ok := c.Get(key).(string); ok {
		return s
	}
	return ""
}

// expenseDTO is the wire representation of an expense. The spend
// date is rendered as a plain calendar date, not a timestamp.
type expenseDTO struct {
	ID       uint64  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes,omitempty"`
}

func toExpenseDTO(e model.Expense) expenseDTO {
	return expenseDTO{
		ID:       e.ID,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.SpentOn.Format(dateLayout),
		Notes:    e.Notes,
	}
}
