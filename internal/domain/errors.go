package domain

import "errors"

// Failure taxonomy shared by providers, the resolver and the HTTP layer.
// Providers wrap these with fmt.Errorf("...: %w", ...) so callers can
// classify with errors.Is while keeping the upstream detail.
var (
	// ErrNotFound: the ticker is unknown or the provider returned a zero price.
	ErrNotFound = errors.New("ticker not found")

	// ErrUnauthorized: the provider rejected the configured API key.
	ErrUnauthorized = errors.New("provider rejected API key")

	// ErrRateLimited: the provider is throttling us.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrUpstream: the provider answered with an unexpected status or payload.
	ErrUpstream = errors.New("provider error")

	// ErrUnreachable: network failure or request timeout.
	ErrUnreachable = errors.New("provider unreachable")

	// ErrUnavailable: every provider in a fallback chain failed.
	ErrUnavailable = errors.New("all providers unavailable")

	// ErrHistoryUnavailable: a historical series is empty or cannot be aligned.
	ErrHistoryUnavailable = errors.New("historical data unavailable")

	// ErrBadRequest: the caller supplied missing or invalid parameters.
	ErrBadRequest = errors.New("bad request")
)
