package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInference    = errors.New("inference failure")
	ErrUnauthorized = errors.New("unauthorized")
)
