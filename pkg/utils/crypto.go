package utils

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidKeyLength = errors.New("invalid key length")
)

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}

// ParseEd25519PublicKeyFromString parses a hex encoded ed25519 public key.
func ParseEd25519PublicKeyFromString(key string) (ed25519.PublicKey, error) {

	keyBytes, err := decodeHex(key)
	if err != nil {
		return nil, err
	}

	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "public key has %d bytes", len(keyBytes))
	}

	return ed25519.PublicKey(keyBytes), nil
}

// ParseEd25519PrivateKeyFromString parses a hex encoded ed25519 private key.
// A 32 byte seed is accepted as well.
func ParseEd25519PrivateKeyFromString(key string) (ed25519.PrivateKey, error) {

	keyBytes, err := decodeHex(key)
	if err != nil {
		return nil, err
	}

	switch len(keyBytes) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(keyBytes), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(keyBytes), nil
	default:
		return nil, errors.Wrapf(ErrInvalidKeyLength, "private key has %d bytes", len(keyBytes))
	}
}
