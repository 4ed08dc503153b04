package domain

import "errors"

var (
	// ErrInvalidRequest is returned when no lookup field is provided or the
	// query is shorter than the minimum length
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when resolution terminates without a match
	ErrProductNotFound = errors.New("product not found")

	// ErrCatalogUnavailable is returned when the catalog store is unreachable
	// or its connection pool is exhausted
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	// ErrInternal is returned on an internal consistency failure
	ErrInternal = errors.New("internal error")

	// ErrCapabilityUnavailable is returned by no-op implementations standing
	// in for capabilities that are not configured
	ErrCapabilityUnavailable = errors.New("capability not configured")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
