// Package cache stores short-lived values that expire on their own, such as
// pending OAuth authorization states.
//
// Memory keeps entries in process and suits a single server instance.
// Redis shares entries across instances; Take is atomic there (GETDEL), so a
// value can be consumed by at most one request cluster-wide.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("cache: entry not found")
	ErrClosed    = errors.New("cache: closed")
	ErrMarshal   = errors.New("cache: failed to marshal value")
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)

// Cache is a key-value store with per-entry expiry.
//
// A zero TTL passed to Set means the cache's default TTL. A negative TTL
// means the entry never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Take returns the value and removes it in one step. A second Take for
	// the same key returns ErrNotFound.
	Take(ctx context.Context, key string) (V, error)

	Delete(ctx context.Context, key string) error
	Close() error
}

// Marshaler converts values for backends that store bytes.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}
