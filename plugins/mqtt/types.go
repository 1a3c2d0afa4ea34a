package mqtt

import (
	"github.com/gohornet/tally/pkg/model/poll"
)

// voteCastPayload defines the payload of the vote_cast topic.
type voteCastPayload struct {
	PollID      poll.PollID `json:"pollId"`
	OptionIndex uint32      `json:"optionIndex"`
	// The count of the option after the vote was applied.
	Count uint64 `json:"count"`
}

// pollDefinedPayload defines the payload of the polls topic.
type pollDefinedPayload struct {
	PollID  poll.PollID `json:"pollId"`
	Options []string    `json:"options"`
}
