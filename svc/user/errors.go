package user

import "errors"

var (
	ErrNotFound           = errors.New("user: not found")
	ErrEmailAlreadyExists = errors.New("user: email already registered")
	ErrInvalidEmail       = errors.New("user: invalid email address")
	ErrWeakPassword       = errors.New("user: password must be at least 8 characters")
	// ErrInvalidCredentials is deliberately generic: authentication never
	// reveals whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("user: invalid email or password")
)
