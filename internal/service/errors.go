// Package service implements the business logic between the HTTP
// handlers and the repositories: credential handling, token
// issuance, input validation and ownership enforcement. Failures are
// reported through sentinel errors so callers branch on identity,
// never on message text.
package service

import "errors"

// Validation failures. Handlers translate these into HTTP 400.
var (
	ErrEmptyField    = errors.New("required field is empty")
	ErrNoChange      = errors.New("new value equals current value")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Credential failures. ErrUnknownIdentifier and ErrBadCredentials
// stay distinct internally for logging and tests, but the HTTP layer
// presents both as the same generic 401 so login responses cannot be
// used to probe which usernames exist.
var (
	ErrUnknownIdentifier = errors.New("unknown login identifier")
	ErrBadCredentials    = errors.New("bad credentials")
)
