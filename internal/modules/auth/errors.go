package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("too many failed attempts, try again later")
	ErrAuthDisabled       = errors.New("operator login is not configured")
)
