package pasetotoken

import "errors"

var (
	ErrConfig       = errors.New("paseto: invalid configuration")
	ErrInvalidToken = errors.New("paseto: invalid token")
)
