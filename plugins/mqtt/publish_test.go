package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/poll"
)

type fakeSubmitter struct {
	capacity  int
	submitted []interface{}
}

func (s *fakeSubmitter) TrySubmit(params ...interface{}) (chan interface{}, bool) {
	if len(s.submitted) >= s.capacity {
		return nil, false
	}
	s.submitted = append(s.submitted, params[0])
	return make(chan interface{}, 1), true
}

func TestVoteCastPublisher(t *testing.T) {
	submitter := &fakeSubmitter{capacity: 1}
	pollMetrics := metrics.NewPollMetrics()
	publisher := newVoteCastPublisher(submitter, pollMetrics)

	require.NoError(t, publisher.Publish(poll.TopicPoll, poll.SubtopicVoteCast, poll.PollID(3), uint32(1), uint64(7)))
	require.Equal(t, []interface{}{&voteCastPayload{PollID: 3, OptionIndex: 1, Count: 7}}, submitter.submitted)

	// the queue is full
	err := publisher.Publish(poll.TopicPoll, poll.SubtopicVoteCast, poll.PollID(3), uint32(0), uint64(1))
	require.ErrorIs(t, err, ErrPublishQueueFull)
	require.Equal(t, uint64(1), pollMetrics.PublishDropped.Load())

	// other facts are ignored
	require.NoError(t, publisher.Publish("other", poll.SubtopicVoteCast))
	require.Len(t, submitter.submitted, 1)
}

func TestVoteCastPayloadFromParams(t *testing.T) {
	_, err := voteCastPayloadFromParams(poll.PollID(1), uint32(0))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = voteCastPayloadFromParams(uint32(1), uint32(0), uint64(1))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = voteCastPayloadFromParams(poll.PollID(1), 0, uint64(1))
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestTalliesTopic(t *testing.T) {
	topic := topicForPollID(topicPollTallies, 42)
	require.Equal(t, "polls/42/tallies", topic)
	require.Equal(t, "polls/42/vote_cast", topicForPollID(topicPollVoteCast, 42))

	pollID, ok := pollIDFromTalliesTopic(topic)
	require.True(t, ok)
	require.Equal(t, poll.PollID(42), pollID)

	for _, invalid := range []string{"polls/42/vote_cast", "polls/abc/tallies", "metrics/vps", "polls//tallies"} {
		_, ok := pollIDFromTalliesTopic(invalid)
		require.False(t, ok, invalid)
	}
}
