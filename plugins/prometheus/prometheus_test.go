package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/core/app"
	"github.com/gohornet/tally/pkg/database"
	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/poll/test"
)

func resetRegistry() {
	registry = prometheus.NewRegistry()
	collects = nil
}

func collectAll() {
	for _, collect := range collects {
		collect()
	}
}

func TestPollCollector(t *testing.T) {
	resetRegistry()

	env := test.NewPollTestEnv(t)
	pollMetrics := metrics.NewPollMetrics()
	configurePoll(env.Registry, env.Ballots, pollMetrics)

	_, err := env.Registry.DefinePoll([]string{"a", "b"})
	require.NoError(t, err)
	env.RequireVote(env.Voter1, 1, 0)
	env.RequireVote(env.Voter2, 1, 1)
	env.RequireVote(env.Voter3, 7, 3)

	pollMetrics.MarkVoteAccepted()
	pollMetrics.VotesDuplicate.Inc()
	pollMetrics.PublishDropped.Inc()

	collectAll()

	require.Equal(t, 1.0, testutil.ToFloat64(pollVotes.WithLabelValues("accepted")))
	require.Equal(t, 1.0, testutil.ToFloat64(pollVotes.WithLabelValues("duplicate")))
	require.Equal(t, 0.0, testutil.ToFloat64(pollVotes.WithLabelValues("unauthorized")))
	require.Equal(t, 1.0, testutil.ToFloat64(pollPublishDropped))
	require.Equal(t, 1.0, testutil.ToFloat64(pollCount))
	require.Equal(t, 2.0, testutil.ToFloat64(pollTotalVotes.WithLabelValues("1")))
	require.Equal(t, 1.0, testutil.ToFloat64(pollTotalVotes.WithLabelValues("7")))
}

func TestDatabaseCollector(t *testing.T) {
	resetRegistry()

	db, err := database.New("", database.EngineMapDB, false)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	databaseMetrics := &metrics.DatabaseMetrics{}
	configureDatabase(db, databaseMetrics)

	databaseMetrics.CompactionCount.Inc()
	databaseMetrics.CompactionRunning.Store(true)
	collectAll()

	require.Equal(t, 1.0, testutil.ToFloat64(compactionCount))
	require.Equal(t, 1.0, testutil.ToFloat64(compactionRunning))
	require.Equal(t, 0.0, testutil.ToFloat64(databaseSizeBytes))
}

func TestMetricsHandler(t *testing.T) {
	resetRegistry()

	configureNode(&app.AppInfo{Name: "TALLY", Version: "0.1.0"})

	restAPIMetrics := &metrics.RestAPIMetrics{}
	restAPIMetrics.HTTPRequestCounter.Add(5)
	configureRestAPI(restAPIMetrics, nil)

	e := echo.New()
	e.GET(RouteMetrics, metricsHandler(false))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, RouteMetrics, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `tally_node_app_info{name="TALLY",version="0.1.0"} 1`)
	require.Contains(t, rec.Body.String(), "tally_restapi_http_requests 5")
}
