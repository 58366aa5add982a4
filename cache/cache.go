// Package cache provides the optional short-TTL cache used by the dashboard
// aggregator. When no Redis address is configured the Noop implementation is
// wired instead and every lookup misses.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
