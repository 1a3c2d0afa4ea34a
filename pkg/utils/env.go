package utils

import (
	"crypto/ed25519"
	"fmt"
	"os"
)

// LoadStringFromEnvironment loads a non-empty string from the given environment variable.
func LoadStringFromEnvironment(name string) (string, error) {

	str, exists := os.LookupEnv(name)
	if !exists || len(str) == 0 {
		return "", fmt.Errorf("environment variable '%s' not set", name)
	}

	return str, nil
}

// LoadEd25519PrivateKeyFromEnvironment loads an ed25519 private key from the given environment variable.
func LoadEd25519PrivateKeyFromEnvironment(name string) (ed25519.PrivateKey, error) {

	key, err := LoadStringFromEnvironment(name)
	if err != nil {
		return nil, err
	}

	privateKey, err := ParseEd25519PrivateKeyFromString(key)
	if err != nil {
		return nil, fmt.Errorf("environment variable '%s' contains an invalid private key: %w", name, err)
	}

	return privateKey, nil
}
