// Package storage implements the PostgreSQL persistence layer.
package storage

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicatePending means the donor already has an open application
	// at this center.
	ErrDuplicatePending = errors.New("storage: pending application already exists")
	// ErrInvalidTransition means the application left the pending state
	// before this update ran.
	ErrInvalidTransition = errors.New("storage: application is not pending")
	// ErrDuplicateLogin means the center login is already taken.
	ErrDuplicateLogin = errors.New("storage: login already exists")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
