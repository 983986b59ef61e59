package account

import "errors"

var (
	// ErrNotFound is returned by a Store when no account matches.
	ErrNotFound = errors.New("account: not found")

	// ErrConflict is returned by Store.Create when the email is already taken.
	// The resolver absorbs it and never surfaces it to callers.
	ErrConflict = errors.New("account: email already exists")

	ErrInvalidEmail       = errors.New("account: invalid email")
	ErrEmptyDisplayName   = errors.New("account: empty display name")
	ErrDisplayNameTooLong = errors.New("account: display name too long")

	// ErrResolveExhausted means every create attempt conflicted and no row
	// could be read back afterwards.
	ErrResolveExhausted = errors.New("account: could not resolve account")
)
