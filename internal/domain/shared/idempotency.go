package shared

import (
	"context"
	"time"
)

// IdempotencyStore reserves client-supplied request keys so that a retried
// submission is not processed twice.
type IdempotencyStore interface {
	// Reserve marks key as in flight for ttl.
	// Returns true if the key was newly reserved, false if it was already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsReserved reports whether key is currently held
	IsReserved(ctx context.Context, key string) (bool, error)

	// Release drops a reservation so the key can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a reserved key blocks duplicate submissions
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
