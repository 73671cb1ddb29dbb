package keystore

import "errors"

var (
	ErrIDRequired        = errors.New("id is required")
	ErrKeyRequired       = errors.New("key is required")
	ErrDataRequired      = errors.New("data is required")
	ErrSignatureRequired = errors.New("signature is required")
	ErrPublicKeyRequired = errors.New("public key is required")
	ErrInvalidFormat     = errors.New("unsupported public key format")
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrUnsupportedKey    = errors.New("unsupported key type")

	// ErrKeyNotFound reports that no key exists for an id. It is a normal
	// outcome, not a fault; callers distinguish it with errors.Is.
	ErrKeyNotFound = errors.New("key not found")
)
