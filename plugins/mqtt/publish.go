package mqtt

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/poll"
)

// taskSubmitter is the part of the workerpool used by the publisher.
type taskSubmitter interface {
	TrySubmit(params ...interface{}) (result chan interface{}, added bool)
}

// newVoteCastPublisher returns a publisher which queues the vote_cast facts of the BallotStore.
// A full queue drops the fact.
func newVoteCastPublisher(pool taskSubmitter, pollMetrics *metrics.PollMetrics) poll.Publisher {
	return poll.PublisherFunc(func(topic string, subtopic string, payload ...interface{}) error {
		if topic != poll.TopicPoll || subtopic != poll.SubtopicVoteCast {
			return nil
		}

		voteCast, err := voteCastPayloadFromParams(payload...)
		if err != nil {
			return err
		}

		if _, added := pool.TrySubmit(voteCast); !added {
			pollMetrics.PublishDropped.Inc()
			return errors.Wrapf(ErrPublishQueueFull, "vote for poll %d dropped", voteCast.PollID)
		}

		return nil
	})
}

func voteCastPayloadFromParams(params ...interface{}) (*voteCastPayload, error) {
	if len(params) != 3 {
		return nil, errors.Wrapf(ErrInvalidPayload, "expected 3 params, got %d", len(params))
	}

	pollID, ok := params[0].(poll.PollID)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPayload, "poll id has type %T", params[0])
	}

	optionIndex, ok := params[1].(uint32)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPayload, "option index has type %T", params[1])
	}

	count, ok := params[2].(uint64)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPayload, "count has type %T", params[2])
	}

	return &voteCastPayload{PollID: pollID, OptionIndex: optionIndex, Count: count}, nil
}

func publishOnTopic(topic string, payload interface{}) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		Plugin.LogWarn(err)
		return
	}

	deps.MQTTBroker.Send(topic, jsonPayload)
}

func publishVoteCast(voteCast *voteCastPayload) {
	if topic := topicForPollID(topicPollVoteCast, voteCast.PollID); deps.MQTTBroker.HasSubscribers(topic) {
		publishOnTopic(topic, voteCast)
	}

	publishTallies(voteCast.PollID)
}

func publishTallies(pollID poll.PollID) {
	topic := topicForPollID(topicPollTallies, pollID)
	if !deps.MQTTBroker.HasSubscribers(topic) {
		return
	}

	status, err := poll.Status(deps.Registry, deps.BallotStore, pollID)
	if err != nil {
		Plugin.LogWarnf("reading status of poll %d failed: %s", pollID, err)
		return
	}

	publishOnTopic(topic, status)
}

// onSubscribeTopic sends the current tallies to new subscribers of a tallies topic.
func onSubscribeTopic(topic []byte) {
	pollID, ok := pollIDFromTalliesTopic(string(topic))
	if !ok || publishWorkerPool == nil {
		return
	}

	publishWorkerPool.TrySubmit(pollID)
}
