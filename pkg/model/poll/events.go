package poll

import (
	"github.com/iotaledger/hive.go/events"
)

// Publisher is a fire-and-forget sink for facts emitted by the BallotStore.
type Publisher interface {
	Publish(topic string, subtopic string, payload ...interface{}) error
}

// PublisherFunc is an adapter to allow the use of ordinary functions as Publisher.
type PublisherFunc func(topic string, subtopic string, payload ...interface{}) error

func (f PublisherFunc) Publish(topic string, subtopic string, payload ...interface{}) error {
	return f(topic, subtopic, payload...)
}

// MultiPublisher publishes to every given publisher.
// All publishers are called, the first error is returned.
func MultiPublisher(publishers ...Publisher) Publisher {
	return PublisherFunc(func(topic string, subtopic string, payload ...interface{}) error {
		var firstErr error
		for _, publisher := range publishers {
			if publisher == nil {
				continue
			}
			if err := publisher.Publish(topic, subtopic, payload...); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
}

// Events are the events issued by the BallotStore and the Registry.
type Events struct {
	// VoteCast is triggered after a vote was committed.
	VoteCast *events.Event
	// VoteRejected is triggered if a vote was not accepted.
	VoteRejected *events.Event
	// PollDefined is triggered after an option catalog was stored.
	PollDefined *events.Event
}

func newEvents() *Events {
	return &Events{
		VoteCast:     events.NewEvent(VoteCastCaller),
		VoteRejected: events.NewEvent(VoteRejectionCaller),
		PollDefined:  events.NewEvent(PollDefinedCaller),
	}
}

func VoteCastCaller(handler interface{}, params ...interface{}) {
	handler.(func(*VoteCast))(params[0].(*VoteCast))
}

func VoteRejectionCaller(handler interface{}, params ...interface{}) {
	handler.(func(*VoteRejection))(params[0].(*VoteRejection))
}

func PollDefinedCaller(handler interface{}, params ...interface{}) {
	handler.(func(PollID, OptionCatalog))(params[0].(PollID), params[1].(OptionCatalog))
}
