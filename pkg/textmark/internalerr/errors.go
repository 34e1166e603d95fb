package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrUnknownChannel = errors.New("unknown channel")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicate      = errors.New("duplicate entry")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
