// Package storage provides the key-value tiers backing the keystore: a
// bounded in-memory LRU tier, a durable LevelDB tier, and a composed store
// layering the first over the second.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key. It is the
// only absence signal; every other error from Get is a real storage fault.
var ErrNotFound = errors.New("key not found in storage")

// Storage is the narrow contract shared by all tiers. Close is terminal:
// no operation is valid on a closed store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
	Close() error
}
