package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/expense-tracker/internal/model"
	"github.com/iliyamo/expense-tracker/internal/queue"
	"github.com/iliyamo/expense-tracker/internal/repository"
)

// fakeExpenseStore mirrors repository.ExpenseRepo semantics in
// memory: all reads and mutations filter on (id, owner) and report
// ErrNotFound when nothing matches.
type fakeExpenseStore struct {
	expenses map[uint64]model.Expense
	nextID   uint64
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{expenses: map[uint64]model.Expense{}}
}

func (f *fakeExpenseStore) Create(_ context.Context, e *model.Expense) error {
	f.nextID++
	e.ID = f.nextID
	f.expenses[e.ID] = *e
	return nil
}

func (f *fakeExpenseStore) ListByOwner(_ context.Context, ownerID uint64) ([]model.Expense, error) {
	out := []model.Expense{}
	for _, e := range f.expenses {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseStore) GetByIDAndOwner(_ context.Context, id, ownerID uint64) (model.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || e.UserID != ownerID {
		return model.Expense{}, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeExpenseStore) Update(_ context.Context, id, ownerID uint64, amount float64, category, notes string) error {
	e, ok := f.expenses[id]
	if !ok || e.UserID != ownerID {
		return repository.ErrNotFound
	}
	e.Amount, e.Category, e.Notes = amount, category, notes
	f.expenses[id] = e
	return nil
}

func (f *fakeExpenseStore) Delete(_ context.Context, id, ownerID uint64) error {
	e, ok := f.expenses[id]
	if !ok || e.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

// recordingPublisher captures published events; failing makes every
// publish return an error.
type recordingPublisher struct {
	events  []queue.ExpenseCreatedEvent
	failing bool
}

func (p *recordingPublisher) PublishExpenseCreated(_ context.Context, ev queue.ExpenseCreatedEvent) error {
	if p.failing {
		return errors.New("broker down")
	}
	p.events = append(p.events, ev)
	return nil
}

var spentOn = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

func TestCreateExpensePublishesEvent(t *testing.T) {
	store := newFakeExpenseStore()
	pub := &recordingPublisher{}
	svc := NewExpenseService(store, pub)

	e, err := svc.Create(context.Background(), 1, "alice", 42.50, "Food", spentOn, "groceries")
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	assert.Equal(t, uint64(1), e.UserID)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, e.ID, ev.ExpenseID)
	assert.Equal(t, "alice", ev.Username)
	assert.Equal(t, 42.50, ev.Amount)
	assert.Equal(t, "2024-01-05", ev.SpentOn)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewExpenseService(newFakeExpenseStore(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "alice", 0, "Food", spentOn, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Create(ctx, 1, "alice", -5, "Food", spentOn, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Create(ctx, 1, "alice", 10, "  ", spentOn, "")
	assert.ErrorIs(t, err, ErrEmptyField)
	_, err = svc.Create(ctx, 1, "alice", 10, "Food", time.Time{}, "")
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestCreateExpenseSurvivesPublisherFailure(t *testing.T) {
	store := newFakeExpenseStore()
	svc := NewExpenseService(store, &recordingPublisher{failing: true})

	e, err := svc.Create(context.Background(), 1, "alice", 10, "Food", spentOn, "")
	require.NoError(t, err, "a broker outage must not fail the write")
	assert.Len(t, store.expenses, 1)
	assert.NotZero(t, e.ID)
}

func TestExpenseOwnerScoping(t *testing.T) {
	store := newFakeExpenseStore()
	svc := NewExpenseService(store, nil)
	ctx := context.Background()

	const ownerA, ownerB = uint64(1), uint64(2)

	e, err := svc.Create(ctx, ownerA, "alice", 42.50, "Food", spentOn, "")
	require.NoError(t, err)

	// B cannot see, change or delete A's expense; every outcome is
	// the same not-found a missing row would produce.
	_, err = svc.Get(ctx, e.ID, ownerB)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Update(ctx, e.ID, ownerB, 1, "Other", ""), repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, e.ID, ownerB), repository.ErrNotFound)

	listB, err := svc.List(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, listB)

	// A's record is untouched by all of the above.
	got, err := svc.Get(ctx, e.ID, ownerA)
	require.NoError(t, err)
	assert.Equal(t, 42.50, got.Amount)
	assert.Equal(t, "Food", got.Category)
}

func TestUpdateAndDeleteOwnedExpense(t *testing.T) {
	store := newFakeExpenseStore()
	svc := NewExpenseService(store, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, 1, "alice", 10, "Food", spentOn, "lunch")
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, e.ID, 1, 12.5, "Transport", "bus"))
	got, err := svc.Get(ctx, e.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Amount)
	assert.Equal(t, "Transport", got.Category)
	assert.Equal(t, "bus", got.Notes)
	assert.Equal(t, spentOn, got.SpentOn, "spend date is immutable")

	require.NoError(t, svc.Delete(ctx, e.ID, 1))
	_, err = svc.Get(ctx, e.ID, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
