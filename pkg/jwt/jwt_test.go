package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/jwt"
)

func TestAuth_IssueAndVerify(t *testing.T) {
	auth, err := jwt.NewAuth("node-1", "salt", time.Hour)
	require.NoError(t, err)

	token, err := auth.IssueJWT("voter-a")
	require.NoError(t, err)

	claims, err := auth.ParseClaims(token)
	require.NoError(t, err)
	require.True(t, claims.VerifySubject("voter-a"))
	require.False(t, claims.VerifySubject("voter-b"))

	require.True(t, auth.VerifyJWT(token, func(claims *jwt.AuthClaims) bool { return true }))
	require.False(t, auth.VerifyJWT(token, func(claims *jwt.AuthClaims) bool { return false }))
}

func TestAuth_RejectsForeignTokens(t *testing.T) {
	auth, err := jwt.NewAuth("node-1", "salt", 0)
	require.NoError(t, err)

	otherSalt, err := jwt.NewAuth("node-1", "other", 0)
	require.NoError(t, err)

	otherNode, err := jwt.NewAuth("node-2", "salt", 0)
	require.NoError(t, err)

	for _, issuer := range []*jwt.Auth{otherSalt, otherNode} {
		token, err := issuer.IssueJWT("voter-a")
		require.NoError(t, err)

		_, err = auth.ParseClaims(token)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	}

	_, err = auth.ParseClaims("not-a-token")
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestNewAuth_Validation(t *testing.T) {
	_, err := jwt.NewAuth("", "salt", 0)
	require.Error(t, err)

	_, err = jwt.NewAuth("node", "", 0)
	require.Error(t, err)

	auth, err := jwt.NewAuth("node", "salt", 0)
	require.NoError(t, err)

	_, err = auth.IssueJWT("")
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", jwt.BearerToken("Bearer abc"))
	require.Equal(t, "", jwt.BearerToken("Basic abc"))
	require.Equal(t, "", jwt.BearerToken(""))
}

func TestAuth_Middleware(t *testing.T) {
	auth, err := jwt.NewAuth("node-1", "salt", 0)
	require.NoError(t, err)

	adminToken, err := auth.IssueJWT("admin")
	require.NoError(t, err)

	voterToken, err := auth.IssueJWT("voter")
	require.NoError(t, err)

	otherNode, err := jwt.NewAuth("node-2", "salt", 0)
	require.NoError(t, err)

	foreignToken, err := otherNode.IssueJWT("admin")
	require.NoError(t, err)

	e := echo.New()
	e.Use(auth.Middleware(
		func(c echo.Context) bool { return c.Path() == "/public" },
		func(c echo.Context, claims *jwt.AuthClaims) bool { return claims.VerifySubject("admin") },
	))
	e.GET("/public", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/protected", func(c echo.Context) error {
		token, ok := c.Get(jwt.ContextKeyJWT).(*gojwt.Token)
		require.True(t, ok)
		require.True(t, token.Claims.(*jwt.AuthClaims).VerifySubject("admin"))
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"public without token", "/public", "", http.StatusOK},
		{"protected without token", "/protected", "", http.StatusBadRequest},
		{"protected with malformed token", "/protected", "abc", http.StatusUnauthorized},
		{"protected with token of another node", "/protected", foreignToken, http.StatusUnauthorized},
		{"protected with voter token", "/protected", voterToken, http.StatusUnauthorized},
		{"protected with admin token", "/protected", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)
		})
	}
}
