package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/jwt"
	"github.com/gohornet/tally/pkg/metrics"
)

func TestCompileRouteAsRegex(t *testing.T) {
	tests := []struct {
		route string
		path  string
		match bool
	}{
		{"/health", "/health", true},
		{"/health", "/healthz", false},
		{"/api/poll/v1/polls*", "/api/poll/v1/polls", true},
		{"/api/poll/v1/polls*", "/api/poll/v1/polls/1/tallies", true},
		{"/api/poll/v1/polls*", "/api/poll/v1/admin/polls", false},
		{"/api/*", "/api/poll/v1/admin/polls/1", true},
		{"/api/*", "/metrics", false},
	}

	for _, test := range tests {
		reg := compileRouteAsRegex(test.route)
		require.NotNil(t, reg)
		require.Equal(t, test.match, reg.MatchString(test.path), "%s ~ %s", test.route, test.path)
	}
}

func TestAPIMiddleware(t *testing.T) {
	jwtAuth, err := jwt.NewAuth("tally", "salt", 0)
	require.NoError(t, err)

	operatorToken, err := jwtAuth.IssueJWT("tally")
	require.NoError(t, err)

	voterToken, err := jwtAuth.IssueJWT("0a0b")
	require.NoError(t, err)

	restAPIMetrics := &metrics.RestAPIMetrics{}

	e := echo.New()
	e.Use(requestCounterMiddleware(restAPIMetrics))
	e.Use(apiMiddleware(jwtAuth, "tally", []string{"/health", "/api/poll/v1/polls*"}, []string{"/api/*"}))

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/health", ok)
	e.GET("/api/poll/v1/polls/:pollID/tallies", ok)
	e.POST("/api/poll/v1/admin/polls", ok)
	e.GET("/metrics", ok)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"public route", http.MethodGet, "/health", "", http.StatusOK},
		{"public wildcard route", http.MethodGet, "/api/poll/v1/polls/1/tallies", "", http.StatusOK},
		{"unlisted route", http.MethodGet, "/metrics", "", http.StatusOK},
		{"protected without token", http.MethodPost, "/api/poll/v1/admin/polls", "", http.StatusBadRequest},
		{"protected with voter token", http.MethodPost, "/api/poll/v1/admin/polls", voterToken, http.StatusUnauthorized},
		{"protected with operator token", http.MethodPost, "/api/poll/v1/admin/polls", operatorToken, http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			if test.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+test.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, test.status, rec.Code)
		})
	}

	require.Equal(t, uint64(len(tests)), restAPIMetrics.HTTPRequestCounter.Load())
}

func TestRestRouteManager(t *testing.T) {
	manager := newRestRouteManager(echo.New())

	manager.AddRoute("poll/v1")
	manager.AddRoute("mqtt/v1")
	manager.AddRoute("poll/v1")

	require.Equal(t, []string{"mqtt/v1", "poll/v1"}, manager.Routes())
}
