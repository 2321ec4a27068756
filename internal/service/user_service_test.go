package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/expense-tracker/internal/model"
	"github.com/iliyamo/expense-tracker/internal/repository"
)

// fakeUserStore is an in-memory credential store with the same
// contracts as repository.UserRepo: ErrConflict on uniqueness
// clashes, ErrNotFound on zero matching rows.
type fakeUserStore struct {
	users  []*model.User
	nextID uint64
}

func (f *fakeUserStore) find(pred func(*model.User) bool) *model.User {
	for _, u := range f.users {
		if pred(u) {
			return u
		}
	}
	return nil
}

func (f *fakeUserStore) byIdentifier(identifier string) *model.User {
	return f.find(func(u *model.User) bool {
		return u.Username == identifier || strings.EqualFold(u.Email, identifier)
	})
}

func (f *fakeUserStore) Create(_ context.Context, username, email, passwordHash string) (model.PublicUser, error) {
	if f.find(func(u *model.User) bool { return u.Username == username || strings.EqualFold(u.Email, email) }) != nil {
		return model.PublicUser{}, repository.ErrConflict
	}
	f.nextID++
	u := &model.User{ID: f.nextID, Username: username, Email: strings.ToLower(email), PasswordHash: passwordHash}
	f.users = append(f.users, u)
	return u.Public(), nil
}

func (f *fakeUserStore) GetByIdentifier(_ context.Context, identifier string) (model.PublicUser, error) {
	if u := f.byIdentifier(identifier); u != nil {
		return u.Public(), nil
	}
	return model.PublicUser{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetPasswordHash(_ context.Context, identifier string) (string, error) {
	if u := f.byIdentifier(identifier); u != nil {
		return u.PasswordHash, nil
	}
	return "", repository.ErrNotFound
}

func (f *fakeUserStore) UpdateUsername(_ context.Context, oldUsername, newUsername string) error {
	if f.find(func(u *model.User) bool { return u.Username == newUsername }) != nil {
		return repository.ErrConflict
	}
	u := f.find(func(u *model.User) bool { return u.Username == oldUsername })
	if u == nil {
		return repository.ErrNotFound
	}
	u.Username = newUsername
	return nil
}

func (f *fakeUserStore) UpdateEmail(_ context.Context, newEmail, byUsername string) error {
	if f.find(func(u *model.User) bool { return strings.EqualFold(u.Email, newEmail) }) != nil {
		return repository.ErrConflict
	}
	u := f.find(func(u *model.User) bool { return u.Username == byUsername })
	if u == nil {
		return repository.ErrNotFound
	}
	u.Email = strings.ToLower(newEmail)
	return nil
}

func (f *fakeUserStore) UpdatePasswordHash(_ context.Context, userID uint64, newHash string) error {
	u := f.find(func(u *model.User) bool { return u.ID == userID })
	if u == nil {
		return repository.ErrNotFound
	}
	u.PasswordHash = newHash
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, userID uint64) error {
	for i, u := range f.users {
		if u.ID == userID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func newUserService(store *fakeUserStore) *UserService {
	// Cost 4 keeps bcrypt fast in tests.
	return NewUserService(store, "test-secret", 1, 4)
}

func TestSignupThenLogin(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)

	tok, got, err := svc.Login(ctx, "alice", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, user, got)

	// Email works as login identifier too.
	_, _, err = svc.Login(ctx, "a@x.com", "pw123456")
	assert.NoError(t, err)
}

func TestSignupConflictCreatesNoRow(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "alice", "other@x.com", "pw123456")
	assert.ErrorIs(t, err, repository.ErrConflict, "duplicate username")

	_, err = svc.Signup(ctx, "bob", "a@x.com", "pw123456")
	assert.ErrorIs(t, err, repository.ErrConflict, "duplicate email")

	assert.Len(t, store.users, 1)
}

func TestSignupRejectsEmptyFields(t *testing.T) {
	svc := newUserService(&fakeUserStore{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "  ", "a@x.com", "pw")
	assert.ErrorIs(t, err, ErrEmptyField)
	_, err = svc.Signup(ctx, "alice", "", "pw")
	assert.ErrorIs(t, err, ErrEmptyField)
	_, err = svc.Signup(ctx, "alice", "a@x.com", "")
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestLoginFailureKindsStayDistinct(t *testing.T) {
	svc := newUserService(&fakeUserStore{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "nobody", "pw123456")
	assert.ErrorIs(t, err, ErrUnknownIdentifier)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestVerifyPasswordMissingUser(t *testing.T) {
	svc := newUserService(&fakeUserStore{})
	assert.False(t, svc.VerifyPassword(context.Background(), "ghost", "pw"))
}

func TestPatchUsername(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "bob", "b@x.com", "pw123456")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.PatchUsername(ctx, "alice", "   "), ErrEmptyField)
	assert.ErrorIs(t, svc.PatchUsername(ctx, "alice", "alice"), ErrNoChange)
	assert.ErrorIs(t, svc.PatchUsername(ctx, "alice", "bob"), repository.ErrConflict)
	assert.ErrorIs(t, svc.PatchUsername(ctx, "ghost", "casper"), repository.ErrNotFound)

	// The store is unchanged after every rejection above.
	_, err = svc.GetUser(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.PatchUsername(ctx, "alice", "alice2"))
	u, err := svc.GetUser(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestPatchEmail(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.PatchEmail(ctx, "", "alice"), ErrEmptyField)
	assert.ErrorIs(t, svc.PatchEmail(ctx, "A@X.com", "alice"), ErrNoChange)

	require.NoError(t, svc.PatchEmail(ctx, "new@x.com", "alice"))
	u, err := svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", u.Email)
}

func TestPatchPasswordWrongCurrentLeavesHash(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "alice", "a@x.com", "old-password")
	require.NoError(t, err)

	err = svc.PatchPassword(ctx, user.ID, "a@x.com", "wrong", "new-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// Old password still logs in after the rejected change.
	_, _, err = svc.Login(ctx, "alice", "old-password")
	assert.NoError(t, err)
}

func TestPatchPasswordSuccess(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "alice", "a@x.com", "old-password")
	require.NoError(t, err)

	require.NoError(t, svc.PatchPassword(ctx, user.ID, "a@x.com", "old-password", "new-password"))

	_, _, err = svc.Login(ctx, "alice", "new-password")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "alice", "old-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestDeleteAccount(t *testing.T) {
	store := &fakeUserStore{}
	svc := newUserService(store)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "alice", "a@x.com", "pw123456")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))
	_, err = svc.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
