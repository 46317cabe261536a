package doctor

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked due to repeated login failures")
	ErrMissingCredentials = errors.New("doctor id and password are required")
)
