package keystore

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFingerprintIsStableAndTagged(t *testing.T) {
	ks := newTestKeyStore(t)
	priv, err := ks.CreateKey(context.Background(), "userA")
	if err != nil {
		t.Fatalf("create key failed: %v", err)
	}
	pubHex, err := PublicKeyHex(priv)
	if err != nil {
		t.Fatalf("public key hex failed: %v", err)
	}

	first, err := Fingerprint(pubHex)
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	second, err := Fingerprint(pubHex)
	if err != nil {
		t.Fatalf("second fingerprint failed: %v", err)
	}
	if first != second {
		t.Fatalf("fingerprint not stable: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "key1") {
		t.Fatalf("missing prefix: %q", first)
	}
	if strings.Contains(first, pubHex) {
		t.Fatal("fingerprint must not embed key material")
	}
}

func TestFingerprintRejectsBadInput(t *testing.T) {
	if _, err := Fingerprint(""); !errors.Is(err, ErrPublicKeyRequired) {
		t.Fatalf("expected ErrPublicKeyRequired, got %v", err)
	}
	if _, err := Fingerprint("zz-not-hex"); err == nil {
		t.Fatal("expected error for malformed hex")
	}
}
