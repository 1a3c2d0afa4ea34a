package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/poll"
)

var (
	pollVotes          *prometheus.GaugeVec
	pollVotesPerSecond prometheus.Gauge
	pollPollsDefined   prometheus.Gauge
	pollPublishDropped prometheus.Gauge
	pollCount          prometheus.Gauge
	pollTotalVotes     *prometheus.GaugeVec
)

func configurePoll(pollRegistry *poll.Registry, ballots *poll.BallotStore, pollMetrics *metrics.PollMetrics) {
	pollVotes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "poll",
			Name:      "votes",
			Help:      "The amount of votes by result.",
		},
		[]string{"result"},
	)

	pollVotesPerSecond = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "poll",
			Name:      "votes_per_second",
			Help:      "The average amount of accepted votes per second during the last minute.",
		},
	)

	pollPollsDefined = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "poll",
			Name:      "definitions",
			Help:      "The amount of stored option catalogs.",
		},
	)

	pollPublishDropped = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "poll",
			Name:      "publish_dropped",
			Help:      "The amount of vote facts which could not be published.",
		},
	)

	pollCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "poll",
			Name:      "polls",
			Help:      "The amount of polls with an option catalog.",
		},
	)

	pollTotalVotes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "poll",
			Name:      "total_votes",
			Help:      "The sum of the tallies of a poll.",
		},
		[]string{"poll_id"},
	)

	registry.MustRegister(pollVotes)
	registry.MustRegister(pollVotesPerSecond)
	registry.MustRegister(pollPollsDefined)
	registry.MustRegister(pollPublishDropped)
	registry.MustRegister(pollCount)
	registry.MustRegister(pollTotalVotes)

	addCollect(func() {
		collectPoll(pollRegistry, ballots, pollMetrics)
	})
}

func collectPoll(pollRegistry *poll.Registry, ballots *poll.BallotStore, pollMetrics *metrics.PollMetrics) {
	pollVotes.WithLabelValues("accepted").Set(float64(pollMetrics.VotesAccepted.Load()))
	pollVotes.WithLabelValues("duplicate").Set(float64(pollMetrics.VotesDuplicate.Load()))
	pollVotes.WithLabelValues("unauthorized").Set(float64(pollMetrics.VotesUnauthorized.Load()))
	pollVotes.WithLabelValues("failed").Set(float64(pollMetrics.VotesFailed.Load()))

	pollVotesPerSecond.Set(pollMetrics.VotesPerSecond())
	pollPollsDefined.Set(float64(pollMetrics.PollsDefined.Load()))
	pollPublishDropped.Set(float64(pollMetrics.PublishDropped.Load()))

	if pollIDs, err := pollRegistry.PollIDs(); err == nil {
		pollCount.Set(float64(len(pollIDs)))
	}

	votedPollIDs, err := ballots.VotedPollIDs()
	if err != nil {
		return
	}

	pollTotalVotes.Reset()
	for _, pollID := range votedPollIDs {
		total, err := ballots.TotalVotes(pollID)
		if err != nil {
			continue
		}
		pollTotalVotes.WithLabelValues(pollID.String()).Set(float64(total))
	}
}
