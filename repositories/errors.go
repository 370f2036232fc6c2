package repositories

import "errors"

// Failure kinds returned by the repositories. Callers branch on these with
// errors.Is; anything else is an unexpected database error.
var (
	// ErrDuplicateUser is returned when a signup collides with an existing
	// username or email.
	ErrDuplicateUser = errors.New("username or email already taken")

	// ErrInvalidCredentials is returned for an unknown username or a wrong
	// password. Authentication failure is a value, never a panic.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
)
