package metrics

import (
	"time"

	"go.uber.org/atomic"

	"github.com/gohornet/tally/pkg/utils"
)

const (
	voteRateWindow = time.Minute
)

// PollMetrics defines poll metrics over the entire runtime of the node.
type PollMetrics struct {
	// The total number of accepted votes.
	VotesAccepted atomic.Uint64
	// The total number of votes rejected as duplicates.
	VotesDuplicate atomic.Uint64
	// The total number of votes rejected because of an invalid credential.
	VotesUnauthorized atomic.Uint64
	// The total number of votes rejected for other reasons.
	VotesFailed atomic.Uint64
	// The total number of poll definitions.
	PollsDefined atomic.Uint64
	// The total number of facts which could not be published.
	PublishDropped atomic.Uint64

	voteRate *utils.RateMeter
}

func NewPollMetrics() *PollMetrics {
	return &PollMetrics{
		voteRate: utils.NewRateMeter(voteRateWindow),
	}
}

// MarkVoteAccepted counts an accepted vote.
func (m *PollMetrics) MarkVoteAccepted() {
	m.VotesAccepted.Inc()
	m.voteRate.Mark(1)
}

// VotesPerSecond returns the average number of accepted votes per second during the last minute.
func (m *PollMetrics) VotesPerSecond() float64 {
	return m.voteRate.PerSecond()
}
