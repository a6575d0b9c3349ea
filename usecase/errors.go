package usecase

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email is already registered")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrSessionExpired     = errors.New("session has ended")

	ErrTextRequired      = errors.New("todo text is required")
	ErrInvalidDate       = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidRange      = errors.New("start must not be after end")
	ErrInvalidColor      = errors.New("unknown color")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrEmptyUpdate       = errors.New("no fields to update")
)
