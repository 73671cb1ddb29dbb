package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLRUPutGetRoundTrip(t *testing.T) {
	s, err := NewLRU(10)
	if err != nil {
		t.Fatalf("new lru failed: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "a", []byte("value-a")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !bytes.Equal(got, []byte("value-a")) {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestLRUMissingKeyIsNotFound(t *testing.T) {
	s, err := NewLRU(10)
	if err != nil {
		t.Fatalf("new lru failed: %v", err)
	}
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewLRU(2)
	if err != nil {
		t.Fatalf("new lru failed: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "a", []byte("a")); err != nil {
		t.Fatalf("put a failed: %v", err)
	}
	if err := s.Put(ctx, "b", []byte("b")); err != nil {
		t.Fatalf("put b failed: %v", err)
	}
	// Touch "a" so "b" becomes the eviction candidate.
	if _, err := s.Get(ctx, "a"); err != nil {
		t.Fatalf("get a failed: %v", err)
	}
	if err := s.Put(ctx, "c", []byte("c")); err != nil {
		t.Fatalf("put c failed: %v", err)
	}

	if _, err := s.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected b evicted, got %v", err)
	}
	if _, err := s.Get(ctx, "a"); err != nil {
		t.Fatalf("expected a retained, got %v", err)
	}
	if _, err := s.Get(ctx, "c"); err != nil {
		t.Fatalf("expected c retained, got %v", err)
	}
}

func TestLRUClear(t *testing.T) {
	s, err := NewLRU(10)
	if err != nil {
		t.Fatalf("new lru failed: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "a", []byte("a")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
