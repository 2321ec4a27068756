package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/expense-tracker/internal/model"
)

// ExpenseRepo provides CRUD operations for expense records. Every
// statement that touches an existing row filters on both the expense
// id and the owner id; a zero-rows-affected result is reported as
// ErrNotFound whether the row is missing or owned by someone else.
type ExpenseRepo struct{ DB *sql.DB }

func NewExpenseRepo(db *sql.DB) *ExpenseRepo { return &ExpenseRepo{DB: db} }

// Create inserts a new expense and populates the generated id on the
// provided record.
func (r *ExpenseRepo) Create(ctx context.Context, e *model.Expense) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO expenses (user_id, amount, category, spent_on, notes) VALUES (?,?,?,?,?)",
		e.UserID, e.Amount, e.Category, e.SpentOn, e.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByOwner returns all expenses owned by a user, newest spend
// date first (ties broken by id so the order is stable).
func (r *ExpenseRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Expense, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,amount,category,spent_on,notes FROM expenses WHERE user_id=? ORDER BY spent_on DESC, id DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Expense{}
	for rows.Next() {
		var (
			e     model.Expense
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.SpentOn, &notes); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByIDAndOwner fetches a single expense scoped to its owner.
func (r *ExpenseRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Expense, error) {
	var (
		e     model.Expense
		notes sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,amount,category,spent_on,notes FROM expenses WHERE id=? AND user_id=? LIMIT 1",
		id, ownerID).Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.SpentOn, &notes)
	if err == sql.ErrNoRows {
		return model.Expense{}, ErrNotFound
	}
	e.Notes = notes.String
	return e, err
}

// Update rewrites the mutable columns of an owner's expense. The
// spend date is deliberately not updatable.
func (r *ExpenseRepo) Update(ctx context.Context, id, ownerID uint64, amount float64, category, notes string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE expenses SET amount=?, category=?, notes=? WHERE id=? AND user_id=?",
		amount, category, notes, id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes an owner's expense. The owner filter means a user
// deleting someone else's id gets the same ErrNotFound as a missing
// row.
func (r *ExpenseRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM expenses WHERE id=? AND user_id=?", id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
