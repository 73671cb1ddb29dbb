package keystore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

const fingerprintPrefix = "key1"

// Fingerprint derives a short, stable, loggable identifier from a
// hex-encoded public key. It is safe to emit where key material is not.
func Fingerprint(publicKeyHex string) (string, error) {
	if publicKeyHex == "" {
		return "", ErrPublicKeyRequired
	}
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return "", fmt.Errorf("decode public key hex: %w", err)
	}
	h := sha256.Sum256(raw)
	return fingerprintPrefix + base58.Encode(h[:]), nil
}
