package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrSeatsUnavailable  = errors.New("not enough seats available")
	ErrInvalidTransition = errors.New("invalid status transition")
)
