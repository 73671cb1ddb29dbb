// Package keystore manages secp256k1 identity key pairs for a peer: creation,
// tiered persistence, retrieval by logical id, signing, and verification with
// a bounded positive-result cache.
package keystore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/prometheus/client_golang/prometheus"

	"aim-chat/keystore/internal/redact"
	"aim-chat/keystore/internal/securestore"
	"aim-chat/keystore/storage"
)

const (
	DefaultPath      = "./keystore"
	DefaultCacheSize = 1000

	recordPrefix = "private_"
)

// Options configures a KeyStore. The zero value is usable: it opens a
// LevelDB store at DefaultPath behind an LRU cache of DefaultCacheSize.
type Options struct {
	// Storage overrides the default composed store. When set, Path and
	// CacheSize are ignored.
	Storage storage.Storage
	Path    string
	// CacheSize bounds the volatile tier of the default store.
	CacheSize int
	// Passphrase, when non-empty, seals persisted private keys in an
	// encrypted envelope. A store written with a passphrase can only be
	// read back with the same one.
	Passphrase string
	Logger     *slog.Logger
	// Registerer receives the keystore metrics; nil disables them.
	Registerer prometheus.Registerer
}

// KeyStore owns the mapping from logical id to key-pair material. A record is
// created once, read many times, and only ever removed in bulk via Clear.
// Concurrent CreateKey calls for the same id are last-writer-wins; callers
// own single-writer-per-id. Close releases the backing store exactly once and
// no operation is valid afterwards.
type KeyStore struct {
	store   storage.Storage
	log     *slog.Logger
	secret  string
	metrics *metrics

	closeOnce sync.Once
	closeErr  error
}

func New(opts Options) (*KeyStore, error) {
	m := newMetrics(opts.Registerer)

	store := opts.Storage
	if store == nil {
		path := opts.Path
		if path == "" {
			path = DefaultPath
		}
		size := opts.CacheSize
		if size <= 0 {
			size = DefaultCacheSize
		}
		cache, err := storage.NewLRU(size)
		if err != nil {
			return nil, err
		}
		durable, err := storage.NewLevel(path)
		if err != nil {
			return nil, err
		}
		composed := storage.NewComposed(cache, durable)
		if m != nil {
			composed.InstrumentCache(m.cacheHits, m.cacheMisses)
		}
		store = composed
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &KeyStore{
		store:   store,
		log:     slog.New(redact.Wrap(logger.Handler())),
		secret:  opts.Passphrase,
		metrics: m,
	}, nil
}

// CreateKey generates a fresh secp256k1 key pair, persists the private key
// under id, and returns it. An existing record for the same id is silently
// overwritten.
func (ks *KeyStore) CreateKey(ctx context.Context, id string) (crypto.PrivKey, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	priv, _, err := crypto.GenerateKeyPair(crypto.Secp256k1, -1)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	if err := ks.putKey(ctx, id, priv); err != nil {
		ks.metrics.keyOp("create", "error")
		return nil, err
	}
	ks.metrics.keyOp("create", "ok")
	ks.log.Debug("created key", "id", id)
	return priv, nil
}

// GetKey returns the key pair stored under id, reconstructed from the
// persisted private-key bytes. Absence is ErrKeyNotFound; any other storage
// fault is returned wrapped and logged.
func (ks *KeyStore) GetKey(ctx context.Context, id string) (crypto.PrivKey, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	record, err := ks.store.Get(ctx, recordPrefix+id)
	if errors.Is(err, storage.ErrNotFound) {
		ks.metrics.keyOp("get", "not_found")
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, id)
	}
	if err != nil {
		ks.metrics.keyOp("get", "error")
		ks.log.Error("key record read failed", "id", id, "error", err)
		return nil, fmt.Errorf("read key record: %w", err)
	}
	priv, err := ks.decodeRecord(record)
	if err != nil {
		ks.metrics.keyOp("get", "error")
		ks.log.Error("key record decode failed", "id", id, "error", err)
		return nil, err
	}
	ks.metrics.keyOp("get", "ok")
	return priv, nil
}

// HasKey reports whether a record exists for id. Absence is (false, nil); a
// real storage fault is (false, err) so callers degrading to false still see
// the fault.
func (ks *KeyStore) HasKey(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrIDRequired
	}
	_, err := ks.store.Get(ctx, recordPrefix+id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	ks.log.Error("key record probe failed", "id", id, "error", err)
	return false, fmt.Errorf("probe key record: %w", err)
}

// Clear empties both storage tiers. Irreversible.
func (ks *KeyStore) Clear(ctx context.Context) error {
	if err := ks.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear keystore: %w", err)
	}
	ks.metrics.keyOp("clear", "ok")
	return nil
}

func (ks *KeyStore) Close() error {
	ks.closeOnce.Do(func() {
		ks.closeErr = ks.store.Close()
	})
	return ks.closeErr
}

func (ks *KeyStore) putKey(ctx context.Context, id string, priv crypto.PrivKey) error {
	raw, err := crypto.MarshalPrivateKey(priv)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	record := raw
	if ks.secret != "" {
		record, err = securestore.Seal(ks.secret, raw)
		if err != nil {
			return fmt.Errorf("seal key record: %w", err)
		}
	}
	if err := ks.store.Put(ctx, recordPrefix+id, record); err != nil {
		ks.log.Error("key record write failed", "id", id, "error", err)
		return fmt.Errorf("write key record: %w", err)
	}
	return nil
}

func (ks *KeyStore) decodeRecord(record []byte) (crypto.PrivKey, error) {
	raw := record
	if ks.secret != "" {
		var err error
		raw, err = securestore.Open(ks.secret, record)
		if err != nil {
			return nil, fmt.Errorf("open key record: %w", err)
		}
	}
	priv, err := crypto.UnmarshalPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal private key: %w", err)
	}
	return priv, nil
}

// PublicKeyFormat is the closed set of public-key serializations.
type PublicKeyFormat string

const (
	FormatHex PublicKeyFormat = "hex"
	FormatRaw PublicKeyFormat = "raw"
)

// GetPublicKey serializes the public half of priv. FormatRaw yields the
// marshaled key bytes, FormatHex their lowercase hex text; both encode the
// same bytes. Any other format is ErrInvalidFormat.
func GetPublicKey(priv crypto.PrivKey, format PublicKeyFormat) ([]byte, error) {
	if priv == nil {
		return nil, ErrKeyRequired
	}
	raw, err := crypto.MarshalPublicKey(priv.GetPublic())
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	switch format {
	case FormatRaw:
		return raw, nil
	case FormatHex:
		return []byte(hex.EncodeToString(raw)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// PublicKeyHex is shorthand for GetPublicKey with FormatHex.
func PublicKeyHex(priv crypto.PrivKey) (string, error) {
	out, err := GetPublicKey(priv, FormatHex)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
