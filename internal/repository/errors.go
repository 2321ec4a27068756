// Package repository defines error values that are reused across
// repositories. These sentinel values let higher layers such as
// services and handlers distinguish failure scenarios by identity
// instead of by message text. ErrNotFound covers both "no such row"
// and "row exists but belongs to someone else" on owner-scoped
// statements; the two are indistinguishable on purpose so existence
// is never leaked to non-owners.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row, or when an
// update/delete affects zero rows. Handlers should translate this
// into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update violates a
// uniqueness constraint, such as registering an already-taken
// username or email. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")
