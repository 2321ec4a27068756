package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/expense-tracker/internal/model"
	"github.com/iliyamo/expense-tracker/internal/repository"
	"github.com/iliyamo/expense-tracker/internal/utils"
)

// UserStore is the slice of the credential store the user service
// needs. *repository.UserRepo satisfies it; tests inject fakes.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (model.PublicUser, error)
	GetByIdentifier(ctx context.Context, identifier string) (model.PublicUser, error)
	GetPasswordHash(ctx context.Context, identifier string) (string, error)
	UpdateUsername(ctx context.Context, oldUsername, newUsername string) error
	UpdateEmail(ctx context.Context, newEmail, byUsername string) error
	UpdatePasswordHash(ctx context.Context, userID uint64, newHash string) error
	Delete(ctx context.Context, userID uint64) error
}

// UserService orchestrates signup, login and profile mutation. The
// signing secret and hashing cost are injected at construction so
// the service carries no process-global state.
type UserService struct {
	Store          UserStore
	JWTSecret      string
	AccessTTLHours int
	BcryptCost     int
}

func NewUserService(store UserStore, secret string, ttlHours, bcryptCost int) *UserService {
	return &UserService{Store: store, JWTSecret: secret, AccessTTLHours: ttlHours, BcryptCost: bcryptCost}
}

// Signup hashes the password and persists a new user. A username or
// email already in use surfaces as repository.ErrConflict.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return model.PublicUser{}, ErrEmptyField
	}
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.PublicUser{}, err
	}
	return s.Store.Create(ctx, username, email, hash)
}

// Login resolves the identifier (username or email), verifies the
// password and issues an access token. The two failure modes stay
// distinct error values; callers must collapse them before anything
// reaches a client.
func (s *UserService) Login(ctx context.Context, identifier, password string) (utils.AccessToken, model.PublicUser, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return utils.AccessToken{}, model.PublicUser{}, ErrEmptyField
	}
	user, err := s.Store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.AccessToken{}, model.PublicUser{}, ErrUnknownIdentifier
		}
		return utils.AccessToken{}, model.PublicUser{}, err
	}
	if !s.VerifyPassword(ctx, identifier, password) {
		return utils.AccessToken{}, model.PublicUser{}, ErrBadCredentials
	}
	token, err := utils.NewAccessToken(s.JWTSecret, user, s.AccessTTLHours)
	if err != nil {
		return utils.AccessToken{}, model.PublicUser{}, err
	}
	return token, user, nil
}

// VerifyPassword looks up the stored hash for the identifier and
// compares it against the supplied plaintext. A missing user is
// reported as false, never as an error.
func (s *UserService) VerifyPassword(ctx context.Context, identifier, password string) bool {
	hash, err := s.Store.GetPasswordHash(ctx, identifier)
	if err != nil {
		return false
	}
	return utils.VerifyPassword(hash, password)
}

// PatchUsername renames the calling user. Empty input and no-op
// renames are rejected before the store is touched.
func (s *UserService) PatchUsername(ctx context.Context, currentUsername, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return ErrEmptyField
	}
	if newUsername == currentUsername {
		return ErrNoChange
	}
	return s.Store.UpdateUsername(ctx, currentUsername, newUsername)
}

// PatchEmail changes the email of the user identified by username.
func (s *UserService) PatchEmail(ctx context.Context, newEmail, byUsername string) error {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" {
		return ErrEmptyField
	}
	u, err := s.Store.GetByIdentifier(ctx, byUsername)
	if err != nil {
		return err
	}
	if strings.EqualFold(newEmail, u.Email) {
		return ErrNoChange
	}
	return s.Store.UpdateEmail(ctx, newEmail, byUsername)
}

// PatchPassword verifies the current password before storing a hash
// of the new one. The lookup is keyed by email while the update is
// keyed by user id; the id is immutable, so a concurrent username or
// email change cannot redirect the write. Note the existence check
// and the update are still two statements, not one atomic unit.
func (s *UserService) PatchPassword(ctx context.Context, userID uint64, userEmail, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrEmptyField
	}
	if _, err := s.Store.GetByIdentifier(ctx, userEmail); err != nil {
		return err
	}
	if !s.VerifyPassword(ctx, userEmail, currentPassword) {
		return ErrBadCredentials
	}
	hash, err := utils.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return err
	}
	return s.Store.UpdatePasswordHash(ctx, userID, hash)
}

// GetUser returns the public projection for an identifier.
func (s *UserService) GetUser(ctx context.Context, identifier string) (model.PublicUser, error) {
	return s.Store.GetByIdentifier(ctx, identifier)
}

// DeleteAccount removes the user and all of their expenses in one
// transaction (repository contract).
func (s *UserService) DeleteAccount(ctx context.Context, userID uint64) error {
	return s.Store.Delete(ctx, userID)
}
