package interfaces

import (
	"context"
	"time"
)

// TokenDenylist records revoked access tokens until their natural expiry.
// Keys are token hashes; raw JWTs are never stored.
type TokenDenylist interface {
	// Add denylists the token hash for the given TTL. Non-positive TTLs
	// are skipped, the token is already dead.
	Add(ctx context.Context, tokenHash string, ttl time.Duration) error

	// Contains reports whether the token hash has been denylisted.
	Contains(ctx context.Context, tokenHash string) (bool, error)
}
