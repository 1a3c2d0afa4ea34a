package test

import (
	"crypto/ed25519"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

var (
	seed1, _ = hex.DecodeString("96d9ff7a79e4b0a5f3e5848ae7867064402da92a62eabb4ebbe463f12d1f3b1a")
	seed2, _ = hex.DecodeString("b15209ddc93cbdb600137ea6a8f88cdd7c5d480d5815c9352a0fb5c4e4b86f71")
	seed3, _ = hex.DecodeString("d5353ceeed380ab89a0f6abe4630c2091acc82617c0edd4ff10bd60bba89e2ed")
	seed4, _ = hex.DecodeString("bd6fe09d8a309ca309c5db7b63513240490109cd0ac6b123551e9da0d5c8916c")

	// ErrInjected is returned by a FailingStore.
	ErrInjected = errors.New("injected storage failure")
)

// Voter is a key pair able to sign votes.
type Voter struct {
	Name       string
	PrivateKey ed25519.PrivateKey
	Identity   identity.Identity
}

func NewVoter(name string, seed []byte) *Voter {
	privateKey := ed25519.NewKeyFromSeed(seed)

	return &Voter{
		Name:       name,
		PrivateKey: privateKey,
		Identity:   identity.IdentityFromPublicKey(privateKey.Public().(ed25519.PublicKey)),
	}
}

// Vote builds a vote of the voter together with a valid credential.
func (v *Voter) Vote(pollID poll.PollID, optionIndex uint32) (*poll.Vote, []byte) {
	vote := &poll.Vote{
		PollID:      pollID,
		Voter:       v.Identity,
		OptionIndex: optionIndex,
	}

	return vote, identity.Ed25519Credential(v.PrivateKey, vote.SigningMessage())
}

// FailingStore wraps a store and fails reads or batch commits on demand.
type FailingStore struct {
	kvstore.KVStore

	mutex        sync.Mutex
	failReads    bool
	failCommits  bool
	failedWrites int
}

func NewFailingStore(store kvstore.KVStore) *FailingStore {
	return &FailingStore{KVStore: store}
}

func (s *FailingStore) FailReads(fail bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failReads = fail
}

func (s *FailingStore) FailCommits(fail bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failCommits = fail
}

// FailedCommits returns the number of batches that were dropped.
func (s *FailingStore) FailedCommits() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.failedWrites
}

func (s *FailingStore) Get(key kvstore.Key) (kvstore.Value, error) {
	s.mutex.Lock()
	fail := s.failReads
	s.mutex.Unlock()

	if fail {
		return nil, ErrInjected
	}

	return s.KVStore.Get(key)
}

func (s *FailingStore) Has(key kvstore.Key) (bool, error) {
	s.mutex.Lock()
	fail := s.failReads
	s.mutex.Unlock()

	if fail {
		return false, ErrInjected
	}

	return s.KVStore.Has(key)
}

func (s *FailingStore) Batched() kvstore.BatchedMutations {
	return &failingBatch{BatchedMutations: s.KVStore.Batched(), store: s}
}

type failingBatch struct {
	kvstore.BatchedMutations
	store *FailingStore
}

func (b *failingBatch) Commit() error {
	b.store.mutex.Lock()
	fail := b.store.failCommits
	if fail {
		b.store.failedWrites++
	}
	b.store.mutex.Unlock()

	if fail {
		b.BatchedMutations.Cancel()
		return ErrInjected
	}

	return b.BatchedMutations.Commit()
}

type PollTestEnv struct {
	t *testing.T

	Voter1 *Voter
	Voter2 *Voter
	Voter3 *Voter
	Voter4 *Voter

	Store    *FailingStore
	Registry *poll.Registry
	Ballots  *poll.BallotStore
}

// NewPollTestEnv sets up a Registry and a BallotStore on an in-memory store
// which verify ed25519 credentials.
func NewPollTestEnv(t *testing.T, opts ...poll.Option) *PollTestEnv {

	store := NewFailingStore(mapdb.NewMapDB())
	locks := poll.NewPollLocks()

	opts = append([]poll.Option{poll.WithPollLocks(locks)}, opts...)

	return &PollTestEnv{
		t:        t,
		Voter1:   NewVoter("Voter1", seed1),
		Voter2:   NewVoter("Voter2", seed2),
		Voter3:   NewVoter("Voter3", seed3),
		Voter4:   NewVoter("Voter4", seed4),
		Store:    store,
		Registry: poll.NewRegistry(store, opts...),
		Ballots:  poll.NewBallotStore(store, identity.NewEd25519Verifier(), opts...),
	}
}

// CastVote casts a correctly signed vote of the voter.
func (env *PollTestEnv) CastVote(voter *Voter, pollID poll.PollID, optionIndex uint32) (bool, error) {
	vote, credential := voter.Vote(pollID, optionIndex)
	return env.Ballots.CastVote(vote, credential)
}

// RequireVote casts a vote and requires it to be accepted.
func (env *PollTestEnv) RequireVote(voter *Voter, pollID poll.PollID, optionIndex uint32) {
	accepted, err := env.CastVote(voter, pollID, optionIndex)
	require.NoError(env.t, err)
	require.True(env.t, accepted)
}

// AssertTallies requires the tallies of the poll to equal the expected counts.
func (env *PollTestEnv) AssertTallies(pollID poll.PollID, expected ...uint64) {
	tallies, err := env.Ballots.ReadTallies(pollID)
	require.NoError(env.t, err)
	if len(expected) == 0 {
		require.NotNil(env.t, tallies)
		require.Empty(env.t, tallies)
		return
	}
	require.Equal(env.t, poll.TallyVector(expected), tallies)
}

// AssertConsistent requires the sum of the tallies to equal the number of accepted votes.
func (env *PollTestEnv) AssertConsistent(pollID poll.PollID) {
	require.NoError(env.t, env.Ballots.CheckConsistency(pollID))
}
