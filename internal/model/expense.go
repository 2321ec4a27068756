package model

import "time"

// Expense mirrors a row in the `expenses` table.  Every expense is
// owned by exactly one user via UserID; all repository operations
// that read or mutate an expense filter on both the expense id and
// the owner id so a user can never touch records that are not theirs.
//
// SpentOn is a calendar date (the DATE column `spent_on`); only the
// year/month/day parts are meaningful.  It is immutable after
// creation.  Notes is free-form and may be empty.
type Expense struct {
	ID        uint64    // expenses.id
	UserID    uint64    // expenses.user_id
	Amount    float64   // expenses.amount
	Category  string    // expenses.category
	SpentOn   time.Time // expenses.spent_on (DATE)
	Notes     string    // expenses.notes
	CreatedAt time.Time // expenses.created_at
}
