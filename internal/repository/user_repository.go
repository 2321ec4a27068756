package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/expense-tracker/internal/model"
)

// UserRepo is the credential store. It is the only component that
// reads or writes the password_hash column; lookups used by the rest
// of the application return the public projection without the hash.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// mysqlDuplicateEntry is the server error number for a unique-key
// violation (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// Create inserts a new user and returns its public projection.
// Username and email must each be unique; a clash with either column
// yields ErrConflict. The uniqueness is checked up front so the
// common case produces a clean conflict, and the unique indexes
// still backstop the race between check and insert.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var exists int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE username=? OR email=? LIMIT 1",
		username, email).Scan(&exists)
	if err == nil {
		return model.PublicUser{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return model.PublicUser{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, passwordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.PublicUser{}, ErrConflict
		}
		return model.PublicUser{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PublicUser{}, err
	}
	return model.PublicUser{ID: uint64(id), Username: username, Email: email}, nil
}

// GetByIdentifier fetches a user by username OR email equality and
// returns the public projection. The password hash is never loaded
// here; use GetPasswordHash for credential checks.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.PublicUser, error) {
	identifier = strings.TrimSpace(identifier)
	var u model.PublicUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email FROM users WHERE username=? OR email=? LIMIT 1",
		identifier, identifier).Scan(&u.ID, &u.Username, &u.Email)
	if err == sql.ErrNoRows {
		return model.PublicUser{}, ErrNotFound
	}
	return u, err
}

// GetPasswordHash returns the stored bcrypt hash for the user
// matching the identifier (username or email).
func (r *UserRepo) GetPasswordHash(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	var hash string
	err := r.DB.QueryRowContext(ctx,
		"SELECT password_hash FROM users WHERE username=? OR email=? LIMIT 1",
		identifier, identifier).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return hash, err
}

// UpdateUsername renames a user keyed by their current username.
// Zero rows affected means the old username does not exist.
func (r *UserRepo) UpdateUsername(ctx context.Context, oldUsername, newUsername string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=? WHERE username=?",
		strings.TrimSpace(newUsername), oldUsername)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	return requireRow(res)
}

// UpdateEmail sets a new email for the user with the given username.
func (r *UserRepo) UpdateEmail(ctx context.Context, newEmail, byUsername string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=? WHERE username=?",
		strings.ToLower(strings.TrimSpace(newEmail)), byUsername)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	return requireRow(res)
}

// UpdatePasswordHash replaces the stored hash for a user id. The
// update is keyed by id rather than by username or email, so a
// concurrent rename between lookup and update cannot redirect it to
// another account.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID uint64, newHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", newHash, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a user and every expense they own as a single
// transaction. Either both deletes commit or neither does.
func (r *UserRepo) Delete(ctx context.Context, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE user_id=?", userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// requireRow translates the zero-rows-affected result of an
// update/delete into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
