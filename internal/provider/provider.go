// Package provider contains the thin typed clients for each upstream price
// source. Every client owns its *http.Client with a bounded timeout (10s for
// simple lookups, 15s for historical range queries), traces its calls, and
// reports failures through the domain error taxonomy.
package provider

import (
	"fmt"
	"net/http"

	"sats-market/internal/domain"
)

const (
	lookupTimeout  = 10 // seconds, spot prices and live quotes
	historyTimeout = 15 // seconds, historical range queries
)

// failStatus classifies a non-200 upstream response.
func failStatus(name string, status int) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", name, domain.ErrUnauthorized)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", name, domain.ErrRateLimited)
	default:
		return fmt.Errorf("%s: status %d: %w", name, status, domain.ErrUpstream)
	}
}

// failNetwork classifies transport errors and timeouts.
func failNetwork(name string, err error) error {
	return fmt.Errorf("%s: %w: %v", name, domain.ErrUnreachable, err)
}
