package store

import (
	"context"
	"time"
)

// TokenStore is a key/value store for raw token payloads with per-entry TTL.
// It satisfies payout.TokenCache.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	HealthCheck(ctx context.Context) error
	Close() error
}
