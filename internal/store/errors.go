package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a user, product or sale does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation is returned when a unique constraint rejects a write.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInsufficientStock is returned when a sale would drive quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// isUniqueViolation detects SQLite unique-constraint failures. The driver does
// not expose a typed error for this, so match the message the same way the
// upstream code matches Postgres duplicate-key errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
