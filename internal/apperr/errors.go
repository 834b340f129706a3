// Package apperr declares the error taxonomy shared by every layer.
// Producers wrap one of these sentinels with context; consumers branch with errors.Is.
package apperr

import "errors"

var (
	ErrLockUnavailable = errors.New("document state unavailable")
	ErrNoDocument      = errors.New("no A2L loaded")
	ErrNotFound        = errors.New("not found")
	ErrInvalidEnum     = errors.New("invalid enumeration value")
	ErrInvalidHex      = errors.New("invalid hexadecimal value")
	ErrIO              = errors.New("i/o failure")
	ErrParse           = errors.New("parse failure")
)
