package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalid indicates the request failed validation.
	ErrInvalid = errors.New("invalid input")
)
