package identity

import (
	"crypto/ed25519"
	"crypto/subtle"

	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/jwt"
)

const (
	// Ed25519CredentialLength is the length of a credential accepted by the Ed25519Verifier.
	Ed25519CredentialLength = ed25519.PublicKeySize + ed25519.SignatureSize
)

// Verifier confirms that the caller controls the claimed identity.
// The message is the canonical representation of the action the caller wants to perform.
type Verifier interface {
	Verify(voter Identity, message []byte, credential []byte) error
}

// VerifierFunc is an adapter to allow the use of ordinary functions as Verifier.
type VerifierFunc func(voter Identity, message []byte, credential []byte) error

func (f VerifierFunc) Verify(voter Identity, message []byte, credential []byte) error {
	return f(voter, message, credential)
}

// Ed25519Verifier accepts credentials of the form publicKey || signature.
// The identity must be derived from the public key and the signature must be valid for the message.
type Ed25519Verifier struct{}

func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

func (v *Ed25519Verifier) Verify(voter Identity, message []byte, credential []byte) error {
	if len(credential) != Ed25519CredentialLength {
		return errors.Wrapf(ErrUnauthorized, "invalid credential length %d", len(credential))
	}

	publicKey := ed25519.PublicKey(credential[:ed25519.PublicKeySize])
	signature := credential[ed25519.PublicKeySize:]

	derived := IdentityFromPublicKey(publicKey)
	if subtle.ConstantTimeCompare(derived[:], voter[:]) != 1 {
		return errors.Wrap(ErrUnauthorized, "public key does not match identity")
	}

	if !ed25519.Verify(publicKey, message, signature) {
		return errors.Wrap(ErrUnauthorized, "invalid signature")
	}

	return nil
}

// Ed25519Credential builds the credential for the Ed25519Verifier.
func Ed25519Credential(privateKey ed25519.PrivateKey, message []byte) []byte {
	credential := make([]byte, 0, Ed25519CredentialLength)
	credential = append(credential, privateKey.Public().(ed25519.PublicKey)...)
	credential = append(credential, ed25519.Sign(privateKey, message)...)

	return credential
}

// JWTVerifier accepts a compact JWT whose subject is the hex encoded identity.
// The message is not part of the token, the token itself proves control over the identity.
type JWTVerifier struct {
	auth *jwt.Auth
}

func NewJWTVerifier(auth *jwt.Auth) *JWTVerifier {
	return &JWTVerifier{auth: auth}
}

func (v *JWTVerifier) Verify(voter Identity, _ []byte, credential []byte) error {
	if len(credential) == 0 {
		return errors.Wrap(ErrUnauthorized, "missing token")
	}

	claims, err := v.auth.ParseClaims(string(credential))
	if err != nil {
		return errors.Wrap(ErrUnauthorized, err.Error())
	}

	if !claims.VerifySubject(voter.String()) {
		return errors.Wrap(ErrUnauthorized, "token subject does not match identity")
	}

	return nil
}

// AnyOf returns a Verifier which succeeds if any of the given verifiers succeeds.
func AnyOf(verifiers ...Verifier) Verifier {
	return VerifierFunc(func(voter Identity, message []byte, credential []byte) error {
		var lastErr error
		for _, verifier := range verifiers {
			err := verifier.Verify(voter, message, credential)
			if err == nil {
				return nil
			}
			lastErr = err
		}

		if lastErr == nil {
			return errors.Wrap(ErrUnauthorized, "no verifier configured")
		}
		if !errors.Is(lastErr, ErrUnauthorized) {
			return errors.Wrap(ErrUnauthorized, lastErr.Error())
		}

		return lastErr
	})
}

// AllowAll returns a Verifier which accepts every identity.
// It is only meant for tests and tools operating on a local database.
func AllowAll() Verifier {
	return VerifierFunc(func(Identity, []byte, []byte) error { return nil })
}
