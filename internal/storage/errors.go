package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record with a
	// key that already exists (e.g. a second open position for an address).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientBalance is returned when a debit would take the balance
	// below zero. The balance is never allowed to go negative.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
