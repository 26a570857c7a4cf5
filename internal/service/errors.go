// Package service implements the application use-cases on top of storage.
package service

import "errors"

var (
	// ErrNotEligible means the donor's cooldown has not passed yet.
	ErrNotEligible = errors.New("service: donor is not eligible yet")
	// ErrBadCredentials covers both unknown login and wrong password.
	ErrBadCredentials = errors.New("service: invalid login or password")
	// ErrBadAccessCode means the staff access code did not match.
	ErrBadAccessCode = errors.New("service: invalid access code")
	// ErrNotOwner means the actor does not own the application.
	ErrNotOwner = errors.New("service: application belongs to someone else")
	// ErrProfileIncomplete means the donor has no blood type on file.
	ErrProfileIncomplete = errors.New("service: donor profile is incomplete")
)
