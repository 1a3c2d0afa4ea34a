package poll

import (
	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/model/poll"
)

// PollsResponse defines the response of a GET RoutePolls REST API call.
type PollsResponse struct {
	// The ids of all defined polls.
	PollIDs []poll.PollID `json:"pollIds"`
}

// DefinePollRequest defines the request of a POST RouteAdminPolls or PUT RouteAdminPoll REST API call.
type DefinePollRequest struct {
	// The labels of the options.
	Options []string `json:"options"`
}

// DefinePollResponse defines the response of a POST RouteAdminPolls or PUT RouteAdminPoll REST API call.
type DefinePollResponse struct {
	PollID poll.PollID `json:"pollId"`
}

// OptionsResponse defines the response of a GET RoutePollOptions REST API call.
type OptionsResponse struct {
	PollID  poll.PollID `json:"pollId"`
	Options []string    `json:"options"`
}

// TalliesResponse defines the response of a GET RoutePollTallies REST API call.
type TalliesResponse struct {
	PollID  poll.PollID `json:"pollId"`
	Tallies []uint64    `json:"tallies"`
}

// TotalVotesResponse defines the response of a GET RoutePollTotal REST API call.
type TotalVotesResponse struct {
	PollID     poll.PollID `json:"pollId"`
	TotalVotes uint64      `json:"totalVotes"`
}

// VoteRequest defines the request of a POST RoutePollVotes REST API call.
// The vote is either signed with the ed25519 key of the voter or authorized by a voter JWT.
type VoteRequest struct {
	Voter       identity.Identity `json:"voter"`
	OptionIndex uint32            `json:"optionIndex"`
	// The hex encoded ed25519 public key of the voter.
	PublicKey string `json:"publicKey,omitempty"`
	// The hex encoded ed25519 signature over the signing message of the vote.
	Signature string `json:"signature,omitempty"`
}

// VoteResponse defines the response of a POST RoutePollVotes REST API call.
type VoteResponse struct {
	Accepted    bool        `json:"accepted"`
	PollID      poll.PollID `json:"pollId"`
	OptionIndex uint32      `json:"optionIndex"`
}

// VoterResponse defines the response of a GET RoutePollVoter REST API call.
type VoterResponse struct {
	PollID poll.PollID       `json:"pollId"`
	Voter  identity.Identity `json:"voter"`
	Voted  bool              `json:"voted"`
}

// VotersResponse defines the response of a GET RoutePollVoters REST API call.
type VotersResponse struct {
	PollID poll.PollID         `json:"pollId"`
	Voters []identity.Identity `json:"voters"`
}

// VoteCastMessage is sent to the websocket clients for every accepted vote.
type VoteCastMessage struct {
	Type        string      `json:"type"`
	PollID      poll.PollID `json:"pollId"`
	OptionIndex uint32      `json:"optionIndex"`
	Count       uint64      `json:"count"`
	Tallies     []uint64    `json:"tallies"`
}

// PollStatusMessage is sent to a websocket client after it connected.
type PollStatusMessage struct {
	Type string `json:"type"`
	*poll.PollStatus
}
