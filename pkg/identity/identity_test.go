package identity_test

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/jwt"
)

func newKey(t *testing.T) (ed25519.PrivateKey, identity.Identity) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	return priv, identity.IdentityFromPublicKey(pub)
}

func TestIdentity_ParseAndJSON(t *testing.T) {
	_, id := newKey(t)

	parsed, err := identity.ParseIdentity(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	parsed, err = identity.ParseIdentity("0x" + id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	jsonBytes, err := json.Marshal(id)
	require.NoError(t, err)
	require.Equal(t, `"`+id.String()+`"`, string(jsonBytes))

	var decoded identity.Identity
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	require.Equal(t, id, decoded)

	_, err = identity.ParseIdentity("abcd")
	require.ErrorIs(t, err, identity.ErrInvalidIdentity)

	_, err = identity.ParseIdentity("zz")
	require.ErrorIs(t, err, identity.ErrInvalidIdentity)
}

func TestEd25519Verifier(t *testing.T) {
	verifier := identity.NewEd25519Verifier()

	priv, id := newKey(t)
	otherPriv, otherID := newKey(t)
	message := []byte("vote for 1")

	credential := identity.Ed25519Credential(priv, message)
	require.Len(t, credential, identity.Ed25519CredentialLength)

	tests := []struct {
		name       string
		voter      identity.Identity
		message    []byte
		credential []byte
		wantErr    bool
	}{
		{"valid", id, message, credential, false},
		{"other identity", otherID, message, credential, true},
		{"other message", id, []byte("vote for 2"), credential, true},
		{"foreign key", id, message, identity.Ed25519Credential(otherPriv, message), true},
		{"truncated", id, message, credential[:40], true},
		{"empty", id, message, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifier.Verify(tt.voter, tt.message, tt.credential)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, identity.ErrUnauthorized)
		})
	}
}

func TestJWTVerifier(t *testing.T) {
	auth, err := jwt.NewAuth("node", "salt", time.Hour)
	require.NoError(t, err)

	verifier := identity.NewJWTVerifier(auth)

	_, id := newKey(t)
	_, otherID := newKey(t)

	token, err := auth.IssueJWT(id.String())
	require.NoError(t, err)

	require.NoError(t, verifier.Verify(id, nil, []byte(token)))
	require.ErrorIs(t, verifier.Verify(otherID, nil, []byte(token)), identity.ErrUnauthorized)
	require.ErrorIs(t, verifier.Verify(id, nil, nil), identity.ErrUnauthorized)
	require.ErrorIs(t, verifier.Verify(id, nil, []byte("garbage")), identity.ErrUnauthorized)
}

func TestAnyOf(t *testing.T) {
	auth, err := jwt.NewAuth("node", "salt", 0)
	require.NoError(t, err)

	verifier := identity.AnyOf(identity.NewEd25519Verifier(), identity.NewJWTVerifier(auth))

	priv, id := newKey(t)
	message := []byte("message")

	token, err := auth.IssueJWT(id.String())
	require.NoError(t, err)

	assert.NoError(t, verifier.Verify(id, message, identity.Ed25519Credential(priv, message)))
	assert.NoError(t, verifier.Verify(id, message, []byte(token)))
	assert.ErrorIs(t, verifier.Verify(id, message, []byte("nope")), identity.ErrUnauthorized)

	assert.ErrorIs(t, identity.AnyOf().Verify(id, message, nil), identity.ErrUnauthorized)
	assert.NoError(t, identity.AllowAll().Verify(id, nil, nil))
}
