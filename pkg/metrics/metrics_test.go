package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/metrics"
)

func TestPollMetrics(t *testing.T) {
	m := metrics.NewPollMetrics()

	m.MarkVoteAccepted()
	m.MarkVoteAccepted()
	m.VotesDuplicate.Inc()

	require.Equal(t, uint64(2), m.VotesAccepted.Load())
	require.Equal(t, uint64(1), m.VotesDuplicate.Load())
	require.InDelta(t, 2.0/60.0, m.VotesPerSecond(), 0.0001)
}
