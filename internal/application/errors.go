package application

import "errors"

// Domain errors surfaced to handlers, which map them to HTTP statuses.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a login response never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
)
