package wireguard

import (
	"bytes"
	"encoding/base64"
	"testing"

	"golang.org/x/crypto/curve25519"
)

func TestGenerateKeyPair(t *testing.T) {
	pair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	if len(pair.PrivateKey) != 44 || len(pair.PublicKey) != 44 {
		t.Fatalf("key lengths = %d/%d, want 44/44", len(pair.PrivateKey), len(pair.PublicKey))
	}

	priv, err := base64.StdEncoding.DecodeString(pair.PrivateKey)
	if err != nil {
		t.Fatalf("private key is not base64: %v", err)
	}
	if priv[0]&7 != 0 || priv[31]&128 != 0 || priv[31]&64 == 0 {
		t.Error("private key is not clamped")
	}

	want, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		t.Fatalf("X25519() error = %v", err)
	}
	pub, _ := base64.StdEncoding.DecodeString(pair.PublicKey)
	if !bytes.Equal(pub, want) {
		t.Error("public key does not match private key")
	}

	other, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	if other.PrivateKey == pair.PrivateKey {
		t.Error("two generated private keys are equal")
	}
}

func TestDerivePublicKey(t *testing.T) {
	pair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	got, err := DerivePublicKey(pair.PrivateKey)
	if err != nil {
		t.Fatalf("DerivePublicKey() error = %v", err)
	}
	if got != pair.PublicKey {
		t.Errorf("DerivePublicKey() = %q, want %q", got, pair.PublicKey)
	}

	if _, err := DerivePublicKey("not-a-key"); err == nil {
		t.Error("DerivePublicKey(not-a-key) error = nil, want error")
	}
}

func TestValidateKey(t *testing.T) {
	pair, _ := GenerateKeyPair()
	if err := ValidateKey(pair.PublicKey); err != nil {
		t.Errorf("ValidateKey(valid) error = %v", err)
	}
	if err := ValidateKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("ValidateKey(short) error = nil, want error")
	}
}
