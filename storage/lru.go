package storage

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a bounded in-memory tier. Capacity is fixed at construction; writes
// beyond capacity evict the least-recently-used entry and reads promote
// recency. Contents do not survive a restart.
type LRU struct {
	entries *lru.Cache[string, []byte]
}

func NewLRU(size int) (*LRU, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru tier: %w", err)
	}
	return &LRU{entries: entries}, nil
}

func (s *LRU) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.entries.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *LRU) Put(ctx context.Context, key string, value []byte) error {
	s.entries.Add(key, value)
	return nil
}

func (s *LRU) Clear(ctx context.Context) error {
	s.entries.Purge()
	return nil
}

// Close is a no-op; the tier holds no external resources.
func (s *LRU) Close() error {
	return nil
}
