package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	// IdentityLength is the length of an Identity in bytes.
	IdentityLength = blake2b.Size256
)

var (
	// ErrUnauthorized is returned if a caller could not prove control over the claimed identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidIdentity is returned if an identity could not be decoded.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Identity is the address of a voter, the BLAKE2b-256 hash of its ed25519 public key.
type Identity [IdentityLength]byte

// IdentityFromPublicKey derives the Identity of the given public key.
func IdentityFromPublicKey(publicKey ed25519.PublicKey) Identity {
	return blake2b.Sum256(publicKey)
}

// ParseIdentity decodes a hex encoded identity. An optional "0x" prefix is accepted.
func ParseIdentity(s string) (Identity, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return Identity{}, errors.Wrapf(ErrInvalidIdentity, "%s", err)
	}
	if len(b) != IdentityLength {
		return Identity{}, errors.Wrapf(ErrInvalidIdentity, "length %d, expected %d", len(b), IdentityLength)
	}

	var id Identity
	copy(id[:], b)

	return id, nil
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseIdentity(s)
	if err != nil {
		return err
	}
	*id = parsed

	return nil
}
