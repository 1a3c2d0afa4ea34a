package poll

import (
	"github.com/iotaledger/hive.go/marshalutil"
)

const (
	// TopicPoll is the topic of the facts emitted by the BallotStore.
	TopicPoll = "poll"
	// SubtopicVoteCast is the subtopic of the fact emitted after a vote was accepted.
	SubtopicVoteCast = "vote_cast"

	signingDomain = "tally-vote"
)

// Vote is the request of a voter to add one vote to an option of a poll.
type Vote struct {
	PollID      PollID
	Voter       Identity
	OptionIndex uint32
}

// SigningMessage returns the canonical bytes a credential of the voter has to cover.
func (v *Vote) SigningMessage() []byte {
	m := marshalutil.New(len(signingDomain) + 4 + len(v.Voter) + 4)
	m.WriteBytes([]byte(signingDomain))
	m.WriteUint32(uint32(v.PollID))
	m.WriteBytes(v.Voter[:])
	m.WriteUint32(v.OptionIndex)

	return m.Bytes()
}

// VoteCast is the fact emitted after a vote was accepted.
type VoteCast struct {
	Topic       string
	Subtopic    string
	PollID      PollID
	Voter       Identity
	OptionIndex uint32
	// Count is the count at OptionIndex after the vote was applied.
	Count uint64
	// Tallies is the complete tally vector after the vote was applied.
	Tallies TallyVector
}

// VoteRejection describes a vote which was not accepted.
type VoteRejection struct {
	Vote *Vote
	Err  error
}
