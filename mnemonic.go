package keystore

import (
	"context"
	"fmt"
	"strings"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/tyler-smith/go-bip39"
)

const secretScalarSize = 32

// ExportMnemonic encodes the 32-byte secret scalar of a secp256k1 key as a
// 24-word BIP-39 mnemonic. The mnemonic is equivalent to the private key;
// treat it accordingly.
func ExportMnemonic(priv crypto.PrivKey) (string, error) {
	if priv == nil {
		return "", ErrKeyRequired
	}
	raw, err := priv.Raw()
	if err != nil {
		return "", fmt.Errorf("serialize private key: %w", err)
	}
	if len(raw) != secretScalarSize {
		return "", fmt.Errorf("%w: secret is %d bytes, want %d", ErrUnsupportedKey, len(raw), secretScalarSize)
	}
	mnemonic, err := bip39.NewMnemonic(raw)
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ImportMnemonic rebuilds the key encoded by a 24-word mnemonic and persists
// it under id, overwriting any existing record.
func (ks *KeyStore) ImportMnemonic(ctx context.Context, id, mnemonic string) (crypto.PrivKey, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return nil, ErrInvalidMnemonic
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	if len(entropy) != secretScalarSize {
		return nil, fmt.Errorf("%w: mnemonic encodes %d bytes, want %d", ErrInvalidMnemonic, len(entropy), secretScalarSize)
	}
	priv, err := crypto.UnmarshalSecp256k1PrivateKey(entropy)
	if err != nil {
		return nil, fmt.Errorf("rebuild private key: %w", err)
	}
	if err := ks.putKey(ctx, id, priv); err != nil {
		return nil, err
	}
	ks.metrics.keyOp("import", "ok")
	return priv, nil
}
