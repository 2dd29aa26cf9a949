package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProfileNotFound is returned by profile repositories when no profile is stored
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDealSourceFailure is returned when deals cannot be fetched from the configured source
	ErrDealSourceFailure = errors.New("deal source request failed")

	// ErrNoDealsAvailable is returned when the deal source has nothing to offer
	ErrNoDealsAvailable = errors.New("no deals available")

	// ErrUnknownBackend is returned when a configured backend name is not supported
	ErrUnknownBackend = errors.New("unknown backend")
)
