package services

import "errors"

// Dashboard service errors
var (
	// ErrNotLoaded is returned until the first successful load.
	ErrNotLoaded = errors.New("dashboard data not loaded")

	ErrUnknownChart   = errors.New("unknown chart")
	ErrUnknownOverlay = errors.New("unknown overlay")
	ErrInvalidPeriod  = errors.New("invalid period")
)
