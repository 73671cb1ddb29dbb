package keystore

import (
	"bytes"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/prometheus/client_golang/prometheus"
)

// Sign signs data with priv and returns the signature as lowercase hex.
func Sign(priv crypto.PrivKey, data []byte) (string, error) {
	if priv == nil {
		return "", ErrKeyRequired
	}
	if len(data) == 0 {
		return "", ErrDataRequired
	}
	sig, err := priv.Sign(data)
	if err != nil {
		return "", fmt.Errorf("sign data: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify checks a hex signature against a hex-encoded marshaled public key
// and data. Malformed input behaves exactly like a wrong signature: the
// result is false, never an error. The error return covers only missing
// arguments.
func Verify(signature, publicKeyHex string, data []byte) (bool, error) {
	if signature == "" {
		return false, ErrSignatureRequired
	}
	if publicKeyHex == "" {
		return false, ErrPublicKeyRequired
	}
	if len(data) == 0 {
		return false, ErrDataRequired
	}
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false, nil
	}
	rawPub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false, nil
	}
	pub, err := crypto.UnmarshalPublicKey(rawPub)
	if err != nil {
		return false, nil
	}
	ok, err := pub.Verify(data, sig)
	if err != nil {
		return false, nil
	}
	return ok, nil
}

type verifiedEntry struct {
	publicKeyHex string
	data         []byte
}

// VerificationCache memoizes successful verifications by signature, bounding
// the cost of re-verifying the same message repeatedly. An entry exists only
// for a triple that verified cryptographically; failures are never cached, so
// a later valid check is never masked by a remembered failure.
type VerificationCache struct {
	entries *lru.Cache[string, verifiedEntry]

	// verify is swappable so tests can observe whether a cache hit skipped
	// the cryptographic check.
	verify func(signature, publicKeyHex string, data []byte) (bool, error)

	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewVerificationCache(size int) (*VerificationCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, verifiedEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create verification cache: %w", err)
	}
	return &VerificationCache{entries: entries, verify: Verify}, nil
}

// Instrument attaches hit/miss counters. Callers own registration.
func (c *VerificationCache) Instrument(hits, misses prometheus.Counter) {
	c.hits = hits
	c.misses = misses
}

// VerifyCached behaves like Verify but consults the cache first. On a hit no
// cryptographic work is done: the cached public key must match exactly and
// the cached data byte-for-byte, otherwise the result is false. On a miss the
// triple is verified and cached only when it passes.
func (c *VerificationCache) VerifyCached(signature, publicKeyHex string, data []byte) (bool, error) {
	if signature == "" {
		return false, ErrSignatureRequired
	}
	if publicKeyHex == "" {
		return false, ErrPublicKeyRequired
	}
	if len(data) == 0 {
		return false, ErrDataRequired
	}
	if entry, ok := c.entries.Get(signature); ok {
		if c.hits != nil {
			c.hits.Inc()
		}
		return entry.publicKeyHex == publicKeyHex && bytes.Equal(entry.data, data), nil
	}
	if c.misses != nil {
		c.misses.Inc()
	}
	ok, err := c.verify(signature, publicKeyHex, data)
	if err != nil || !ok {
		return false, err
	}
	c.entries.Add(signature, verifiedEntry{
		publicKeyHex: publicKeyHex,
		data:         append([]byte(nil), data...),
	})
	return true, nil
}

// Clear drops all cached verification results.
func (c *VerificationCache) Clear() {
	c.entries.Purge()
}
