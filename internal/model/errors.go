package model

import "errors"

var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrNoSession          = errors.New("no active session")

	// Engine errors
	ErrMisconfigured      = errors.New("engine endpoint misconfigured")
	ErrServiceUnavailable = errors.New("engine unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
