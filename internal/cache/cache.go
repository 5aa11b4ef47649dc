// Package cache provides a small string key/value cache with expiry, used to
// remember recently revalidated session claims.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get reports a miss with ok == false and a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop never stores anything. It is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error                     { return nil }
