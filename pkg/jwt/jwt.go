package jwt

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrJWTInvalidClaims = echo.NewHTTPError(http.StatusUnauthorized, "invalid jwt claims")
	// ErrInvalidToken is returned if a token could not be parsed or its signature, audience or expiry is invalid.
	ErrInvalidToken = errors.New("invalid jwt")
)

const (
	// ContextKeyJWT is the echo context key under which the verified token is stored.
	ContextKeyJWT = "jwt"
)

// Auth issues and verifies HS256 tokens whose audience is the node.
type Auth struct {
	sessionTimeout time.Duration
	nodeID         string
	secret         []byte
}

// NewAuth creates a new Auth. The signing secret is derived from the given salt.
func NewAuth(nodeID string, salt string, sessionTimeout time.Duration) (*Auth, error) {

	if len(nodeID) == 0 {
		return nil, errors.New("node id must not be empty")
	}
	if len(salt) == 0 {
		return nil, errors.New("salt must not be empty")
	}

	secret := blake2b.Sum256([]byte(nodeID + salt))

	return &Auth{
		sessionTimeout: sessionTimeout,
		nodeID:         nodeID,
		secret:         secret[:],
	}, nil
}

type AuthClaims struct {
	jwt.StandardClaims
}

func (c *AuthClaims) compare(field string, expected string) bool {
	if field == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(field), []byte(expected)) != 0 {
		return true
	}

	return false
}

func (c *AuthClaims) VerifySubject(expected string) bool {
	return c.compare(c.Subject, expected)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
// An empty string is returned if there is none.
func BearerToken(header string) string {
	prefix := middleware.DefaultJWTConfig.AuthScheme + " "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

// Middleware verifies the bearer token of every request not skipped by the skipper.
// The allow func decides whether the verified subject may access the route.
func (j *Auth) Middleware(skipper middleware.Skipper, allow func(c echo.Context, claims *AuthClaims) bool) echo.MiddlewareFunc {

	config := middleware.JWTConfig{
		ContextKey: ContextKeyJWT,
		Claims:     &AuthClaims{},
		SigningKey: j.secret,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {

		return func(c echo.Context) error {

			// skip unprotected endpoints
			if skipper(c) {
				return next(c)
			}

			// use the default JWT middleware to verify and extract the JWT
			handler := middleware.JWTWithConfig(config)(func(c echo.Context) error {
				return nil
			})

			// run the JWT middleware
			if err := handler(c); err != nil {
				return err
			}

			token, ok := c.Get(ContextKeyJWT).(*jwt.Token)
			if !ok {
				return fmt.Errorf("expected *jwt.Token, got %T", c.Get(ContextKeyJWT))
			}

			// validate the signing method we expect
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			// read the claims set by the JWT middleware on the context
			claims, ok := token.Claims.(*AuthClaims)

			// do extended claims validation
			if !ok || !claims.VerifyAudience(j.nodeID, true) {
				return ErrJWTInvalidClaims
			}

			// validate claims
			if !allow(c, claims) {
				return ErrJWTInvalidClaims
			}

			// go to the next handler
			return next(c)
		}
	}
}

// IssueJWT issues a token for the given subject.
func (j *Auth) IssueJWT(subject string) (string, error) {

	if len(subject) == 0 {
		return "", errors.New("subject must not be empty")
	}

	now := time.Now()

	// Set claims
	stdClaims := jwt.StandardClaims{
		Subject:   subject,
		Issuer:    j.nodeID,
		Audience:  j.nodeID,
		Id:        fmt.Sprintf("%d", now.UnixNano()),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
	}

	if j.sessionTimeout > 0 {
		stdClaims.ExpiresAt = now.Add(j.sessionTimeout).Unix()
	}

	claims := &AuthClaims{
		StandardClaims: stdClaims,
	}

	// Create token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(j.secret)
}

// ParseClaims verifies the token and returns its claims.
func (j *Auth) ParseClaims(token string) (*AuthClaims, error) {

	t, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return j.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := t.Claims.(*AuthClaims)
	if !ok || !claims.VerifyAudience(j.nodeID, true) {
		return nil, errors.Wrap(ErrInvalidToken, "audience mismatch")
	}

	return claims, nil
}

// VerifyJWT returns true if the token is valid and the allow func accepts its claims.
func (j *Auth) VerifyJWT(token string, allow func(claims *AuthClaims) bool) bool {
	claims, err := j.ParseClaims(token)
	if err != nil {
		return false
	}

	return allow(claims)
}
