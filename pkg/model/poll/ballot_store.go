package poll

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/utils"
	"github.com/iotaledger/hive.go/kvstore"
)

var (
	ErrInvalidVote = errors.New("invalid vote")
)

// votedFlag is the value stored for every identity that voted.
var votedFlag = []byte{1}

// BallotStore owns the tally vector and the voted set of every poll.
// All state lives in the injected store, nothing is cached between calls.
type BallotStore struct {
	// the logger used to log events.
	*utils.WrappedLogger

	store    kvstore.KVStore
	verifier identity.Verifier
	opts     *Options

	Events *Events
}

// NewBallotStore creates a new BallotStore on top of the given store.
// Every vote is checked by the verifier before any state is touched.
func NewBallotStore(store kvstore.KVStore, verifier identity.Verifier, opts ...Option) *BallotStore {
	options := newOptions(opts)

	return &BallotStore{
		WrappedLogger: utils.NewWrappedLogger(options.logger),
		store:         store,
		verifier:      verifier,
		opts:          options,
		Events:        newEvents(),
	}
}

// DuplicatePolicy returns the configured duplicate policy.
func (s *BallotStore) DuplicatePolicy() DuplicatePolicy {
	return s.opts.duplicatePolicy
}

// CastVote records the vote if the credential proves control over the voter identity.
// The tally update and the voter record are committed together or not at all.
func (s *BallotStore) CastVote(vote *Vote, credential []byte) (bool, error) {
	if vote == nil {
		return false, ErrInvalidVote
	}

	if err := s.verifier.Verify(vote.Voter, vote.SigningMessage(), credential); err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			err = errors.Wrap(ErrUnauthorized, err.Error())
		}
		return false, s.reject(vote, err)
	}

	s.opts.locks.Lock(vote.PollID)
	voteCast, err := s.applyVote(vote)
	s.opts.locks.Unlock(vote.PollID)
	if err != nil {
		return false, s.reject(vote, err)
	}

	s.emit(voteCast)

	return true, nil
}

func (s *BallotStore) applyVote(vote *Vote) (*VoteCast, error) {
	voterKey := voterKeyForPollIDAndIdentity(vote.PollID, vote.Voter)

	voted, err := s.store.Has(voterKey)
	if err != nil {
		return nil, storageError(err, "failed to read voter record")
	}
	if voted && s.opts.duplicatePolicy == DuplicatePolicyReject {
		return nil, errors.Wrapf(ErrDuplicateVote, "identity %s, poll %d", vote.Voter, vote.PollID)
	}

	if err := s.checkOptionIndex(vote); err != nil {
		return nil, err
	}

	tallies, err := readTallies(s.store, vote.PollID)
	if err != nil {
		return nil, err
	}

	voterCount, err := readVoterCount(s.store, vote.PollID)
	if err != nil {
		return nil, err
	}

	tallies, count := tallies.increment(vote.OptionIndex)

	mutations := s.store.Batched()

	if err := mutations.Set(talliesKeyForPollID(vote.PollID), tallies.Bytes()); err != nil {
		mutations.Cancel()
		return nil, storageError(err, "failed to store tallies")
	}

	if err := mutations.Set(voterKey, votedFlag); err != nil {
		mutations.Cancel()
		return nil, storageError(err, "failed to store voter record")
	}

	if err := mutations.Set(voterCountKeyForPollID(vote.PollID), voterCountBytes(voterCount+1)); err != nil {
		mutations.Cancel()
		return nil, storageError(err, "failed to store voter count")
	}

	if err := mutations.Commit(); err != nil {
		return nil, storageError(err, "failed to commit vote")
	}

	return &VoteCast{
		Topic:       TopicPoll,
		Subtopic:    SubtopicVoteCast,
		PollID:      vote.PollID,
		Voter:       vote.Voter,
		OptionIndex: vote.OptionIndex,
		Count:       count,
		Tallies:     tallies,
	}, nil
}

func (s *BallotStore) checkOptionIndex(vote *Vote) error {
	if vote.OptionIndex > MaxOptionIndex {
		return errors.Wrapf(ErrOptionOutOfRange, "option index %d, max option index %d", vote.OptionIndex, MaxOptionIndex)
	}

	if s.opts.maxTallyLength > 0 && vote.OptionIndex >= s.opts.maxTallyLength {
		return errors.Wrapf(ErrOptionOutOfRange, "option index %d, max tally length %d", vote.OptionIndex, s.opts.maxTallyLength)
	}

	if !s.opts.catalogValidation {
		return nil
	}

	catalog, err := readCatalog(s.store, vote.PollID)
	if err != nil {
		return err
	}
	if catalog == nil {
		// polls without a catalog grow lazily
		return nil
	}
	if uint64(vote.OptionIndex) >= uint64(len(catalog)) {
		return errors.Wrapf(ErrOptionOutOfRange, "option index %d, poll %d has %d options", vote.OptionIndex, vote.PollID, len(catalog))
	}

	return nil
}

func (s *BallotStore) reject(vote *Vote, err error) error {
	s.safely("vote rejected event", func() error {
		s.Events.VoteRejected.Trigger(&VoteRejection{Vote: vote, Err: err})
		return nil
	})

	return err
}

// emit informs the event handlers and the publisher. Failures never affect the vote.
func (s *BallotStore) emit(voteCast *VoteCast) {
	s.safely("vote cast event", func() error {
		s.Events.VoteCast.Trigger(voteCast)
		return nil
	})

	if s.opts.publisher == nil {
		return
	}

	s.safely("vote cast publish", func() error {
		return s.opts.publisher.Publish(voteCast.Topic, voteCast.Subtopic, voteCast.PollID, voteCast.OptionIndex, voteCast.Count)
	})
}

func (s *BallotStore) safely(name string, f func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.LogWarnf("%s failed: %s", name, fmt.Sprint(r))
		}
	}()

	if err := f(); err != nil {
		s.LogWarnf("%s failed: %s", name, err)
	}
}

// ReadTallies returns the tally vector of the poll. It is empty if no vote was cast.
func (s *BallotStore) ReadTallies(pollID PollID) (TallyVector, error) {
	return readTallies(s.store, pollID)
}

// TotalVotes returns the sum of the tally vector of the poll.
func (s *BallotStore) TotalVotes(pollID PollID) (uint64, error) {
	tallies, err := readTallies(s.store, pollID)
	if err != nil {
		return 0, err
	}

	return tallies.Total(), nil
}

// HasVoted returns whether the identity cast an accepted vote for the poll.
func (s *BallotStore) HasVoted(pollID PollID, voter Identity) (bool, error) {
	voted, err := s.store.Has(voterKeyForPollIDAndIdentity(pollID, voter))
	if err != nil {
		return false, storageError(err, "failed to read voter record")
	}

	return voted, nil
}

// VoterCount returns the number of accepted votes of the poll.
func (s *BallotStore) VoterCount(pollID PollID) (uint64, error) {
	return readVoterCount(s.store, pollID)
}

// CheckConsistency returns ErrInconsistentTally if the tallies do not add up to the number of accepted votes.
func (s *BallotStore) CheckConsistency(pollID PollID) error {
	s.opts.locks.Lock(pollID)
	defer s.opts.locks.Unlock(pollID)

	total, err := s.TotalVotes(pollID)
	if err != nil {
		return err
	}

	voterCount, err := s.VoterCount(pollID)
	if err != nil {
		return err
	}

	if total != voterCount {
		return errors.Wrapf(ErrInconsistentTally, "poll %d: tallies sum up to %d, %d votes accepted", pollID, total, voterCount)
	}

	return nil
}

// VotedPollIDs returns the ids of all polls with at least one accepted vote in ascending order.
// Polls do not need a catalog to receive votes.
func (s *BallotStore) VotedPollIDs() ([]PollID, error) {
	return readPollIDs(s.store, StoreKeyPrefixTallies)
}

// VoterConsumer is called for every identity that voted. Returning false stops the iteration.
type VoterConsumer func(voter Identity) bool

// ForEachVoter iterates over the identities that voted for the poll.
func (s *BallotStore) ForEachVoter(pollID PollID, consumer VoterConsumer, options ...IterateOption) error {
	opt := iterateOptions(options)
	prefix := votersKeyPrefixForPollID(pollID)

	var i int
	if err := s.store.IterateKeys(prefix, func(key kvstore.Key) bool {

		if (opt.maxResultCount > 0) && (i >= opt.maxResultCount) {
			return false
		}

		i++

		var voter Identity
		copy(voter[:], key[len(prefix):]) // Skip the prefix and the poll id

		return consumer(voter)
	}); err != nil {
		return storageError(err, "failed to iterate voters")
	}

	return nil
}
