// Package repository holds the errors shared by the file and database
// stores.
package repository

import "errors"

var (
	// ErrNotFound is returned when a stored file or entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for names that would escape their
	// directory and for malformed store input.
	ErrInvalidInput = errors.New("invalid input")
)
