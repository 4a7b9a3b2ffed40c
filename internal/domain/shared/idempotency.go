package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so event handlers can
// suppress redeliveries.
type IdempotencyStore interface {
	// MarkProcessed claims an event ID for the given TTL. It returns
	// true when this call claimed the ID, false when it was already
	// marked.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID is currently marked.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers.
type IdempotencyConfig struct {
	// TTL bounds how long an event ID stays claimed. After it expires
	// the same ID may be processed again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig enables suppression with a 24 hour window.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
