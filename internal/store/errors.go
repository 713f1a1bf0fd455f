package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateUsername is returned when a username is already taken
	// by another user (case-insensitive).
	ErrDuplicateUsername = errors.New("store: username already exists")
	// ErrDuplicateEmail is returned when an email is already taken by
	// another user.
	ErrDuplicateEmail = errors.New("store: email already exists")
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// The existence pre-checks close the common path; this closes the race
// where two requests pass the pre-check before either commits.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "Duplicate entry") // MySQL
}
