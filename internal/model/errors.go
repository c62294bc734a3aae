package model

import "errors"

// Common errors used across the application
var (
	// Player / stats errors
	ErrStatsNotFound   = errors.New("player stats not found")
	ErrProfileNotFound = errors.New("profile not found")

	// Verification errors
	ErrCodeNotFound = errors.New("verification code not found")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
)
