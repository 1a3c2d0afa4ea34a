package poll

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/common"
	"github.com/gohornet/tally/pkg/identity"
)

const (
	// DefaultPollID is the identifier returned by DefinePoll if no explicit id is given.
	DefaultPollID PollID = 1
)

var (
	// ErrDuplicateVote is returned if the identity already cast a vote for the poll.
	ErrDuplicateVote = errors.New("identity already voted")
	// ErrUnauthorized is returned if the identity verifier rejected the caller.
	ErrUnauthorized = identity.ErrUnauthorized
	// ErrStorageFailure is returned if the store could not be read or written.
	ErrStorageFailure = common.ErrStorageFailure
	// ErrOptionOutOfRange is returned if an enabled option index guard rejected the vote.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrInconsistentTally is returned if the sum of the tallies differs from the number of accepted votes.
	ErrInconsistentTally = errors.New("tally sum does not match the number of accepted votes")
	// ErrInvalidPollID is returned if a poll id could not be parsed.
	ErrInvalidPollID = errors.New("invalid poll id")
	// ErrPollIDsExhausted is returned if no further poll id can be allocated.
	ErrPollIDsExhausted = errors.New("no free poll id left")
)

// PollID identifies a poll and scopes all of its stored state.
type PollID uint32

// Identity is the address of a voter.
type Identity = identity.Identity

// ParsePollID parses a decimal poll id.
func ParsePollID(s string) (PollID, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPollID, "%s", err)
	}

	return PollID(id), nil
}

func (id PollID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func storageError(err error, message string) error {
	return errors.Wrap(common.NewDatabaseError(err), message)
}
