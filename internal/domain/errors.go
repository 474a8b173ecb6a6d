package domain

import "errors"

var (
	// ErrInvalidOutcome is returned for input that is not RED, BLUE or TIE.
	ErrInvalidOutcome = errors.New("invalid outcome")
	// ErrRateLimited is the message of 429 responses from the rate limiter.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthorized is the message of 401 responses from API-key auth.
	ErrUnauthorized = errors.New("unauthorized")
)
