package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// Level is the durable tier, a LevelDB database rooted at a filesystem path.
// Two processes must not open the same path.
type Level struct {
	db   *leveldb.DB
	path string
}

func NewLevel(path string) (*Level, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %q: %w", path, err)
	}
	return &Level{db: db, path: path}, nil
}

func (s *Level) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get %q: %w", key, err)
	}
	return value, nil
}

func (s *Level) Put(ctx context.Context, key string, value []byte) error {
	if err := s.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("leveldb put %q: %w", key, err)
	}
	return nil
}

func (s *Level) Clear(ctx context.Context) error {
	batch := new(leveldb.Batch)
	iter := s.db.NewIterator(nil, nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("leveldb clear scan: %w", err)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb clear write: %w", err)
	}
	return nil
}

func (s *Level) Close() error {
	return s.db.Close()
}
