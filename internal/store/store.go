// Package store implements persistence for accounts, watchlists, cached
// upstream responses and the frontend bundle.
package store

import "errors"

var (
	// ErrNotFound is returned when the addressed user or flight does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUser is returned when the username is already taken.
	ErrDuplicateUser = errors.New("user already exists")
)
