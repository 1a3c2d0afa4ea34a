package mqtt

import (
	"strings"

	"github.com/gohornet/tally/pkg/model/poll"
)

// Topic names
const (
	parameterPollID = "{pollId}"

	topicPolls         = "polls"
	topicPollVoteCast  = "polls/" + parameterPollID + "/vote_cast"
	topicPollTallies   = "polls/" + parameterPollID + "/tallies"
	topicMetricsVPS    = "metrics/vps"
	topicSuffixTallies = "/tallies"
)

func topicForPollID(topic string, pollID poll.PollID) string {
	return strings.ReplaceAll(topic, parameterPollID, pollID.String())
}

// pollIDFromTalliesTopic extracts the poll id of a "polls/{pollId}/tallies" topic.
func pollIDFromTalliesTopic(topic string) (poll.PollID, bool) {
	if !strings.HasPrefix(topic, topicPolls+"/") || !strings.HasSuffix(topic, topicSuffixTallies) {
		return 0, false
	}

	pollIDParam := strings.TrimSuffix(strings.TrimPrefix(topic, topicPolls+"/"), topicSuffixTallies)
	pollID, err := poll.ParsePollID(pollIDParam)
	if err != nil {
		return 0, false
	}

	return pollID, true
}
