package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/expense-tracker/internal/model"
	"github.com/iliyamo/expense-tracker/internal/queue"
)

// ExpenseStore is the repository surface the expense service uses.
// *repository.ExpenseRepo satisfies it.
type ExpenseStore interface {
	Create(ctx context.Context, e *model.Expense) error
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Expense, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Expense, error)
	Update(ctx context.Context, id, ownerID uint64, amount float64, category, notes string) error
	Delete(ctx context.Context, id, ownerID uint64) error
}

// ExpenseService validates expense input and enforces that every
// read and mutation is scoped to the owning user. Events is optional;
// when set, a successful create publishes an ExpenseCreatedEvent.
// Publish failures are swallowed: the broker is an observer of the
// system, not a participant in the write path.
type ExpenseService struct {
	Store  ExpenseStore
	Events queue.Publisher
}

func NewExpenseService(store ExpenseStore, events queue.Publisher) *ExpenseService {
	return &ExpenseService{Store: store, Events: events}
}

// Create records a new expense for ownerID. Amount must be positive,
// category non-empty and spentOn a real date.
func (s *ExpenseService) Create(ctx context.Context, ownerID uint64, username string, amount float64, category string, spentOn time.Time, notes string) (model.Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" || spentOn.IsZero() {
		return model.Expense{}, ErrEmptyField
	}
	if amount <= 0 {
		return model.Expense{}, ErrInvalidAmount
	}
	e := model.Expense{
		UserID:   ownerID,
		Amount:   amount,
		Category: category,
		SpentOn:  spentOn,
		Notes:    strings.TrimSpace(notes),
	}
	if err := s.Store.Create(ctx, &e); err != nil {
		return model.Expense{}, err
	}
	if s.Events != nil {
		_ = s.Events.PublishExpenseCreated(ctx, queue.ExpenseCreatedEvent{
			ExpenseID: e.ID,
			UserID:    ownerID,
			Username:  username,
			Amount:    e.Amount,
			Category:  e.Category,
			SpentOn:   e.SpentOn.Format("2006-01-02"),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return e, nil
}

// List returns all expenses owned by ownerID, newest first.
func (s *ExpenseService) List(ctx context.Context, ownerID uint64) ([]model.Expense, error) {
	return s.Store.ListByOwner(ctx, ownerID)
}

// Get fetches one expense scoped to its owner.
func (s *ExpenseService) Get(ctx context.Context, id, ownerID uint64) (model.Expense, error) {
	return s.Store.GetByIDAndOwner(ctx, id, ownerID)
}

// Update rewrites amount, category and notes of an owned expense.
// The spend date is immutable after creation.
func (s *ExpenseService) Update(ctx context.Context, id, ownerID uint64, amount float64, category, notes string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrEmptyField
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.Store.Update(ctx, id, ownerID, amount, category, strings.TrimSpace(notes))
}

// Delete removes an owned expense. Deleting another user's expense
// reports the same not-found as a missing row.
func (s *ExpenseService) Delete(ctx context.Context, id, ownerID uint64) error {
	return s.Store.Delete(ctx, id, ownerID)
}
