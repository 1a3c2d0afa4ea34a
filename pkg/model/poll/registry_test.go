package poll_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/model/poll/test"
	"github.com/iotaledger/hive.go/events"
)

func TestDefinePoll_ListOptions(t *testing.T) {
	env := test.NewPollTestEnv(t)

	pollID, err := env.Registry.DefinePoll([]string{"Yes", "No"})
	require.NoError(t, err)
	require.Equal(t, poll.DefaultPollID, pollID)

	options, err := env.Registry.ListOptions(pollID)
	require.NoError(t, err)
	require.Equal(t, poll.OptionCatalog{"Yes", "No"}, options)

	// votes do not touch the catalog
	env.RequireVote(env.Voter1, pollID, 0)
	env.RequireVote(env.Voter2, pollID, 5)

	again, err := env.Registry.ListOptions(pollID)
	require.NoError(t, err)
	require.Equal(t, options, again)
}

func TestDefinePoll_Overwrites(t *testing.T) {
	env := test.NewPollTestEnv(t)

	_, err := env.Registry.DefinePoll([]string{"Yes", "No"})
	require.NoError(t, err)
	env.RequireVote(env.Voter1, poll.DefaultPollID, 1)

	pollID, err := env.Registry.DefinePoll([]string{"A", "B", "C"})
	require.NoError(t, err)
	require.Equal(t, poll.DefaultPollID, pollID)

	options, err := env.Registry.ListOptions(pollID)
	require.NoError(t, err)
	require.Equal(t, poll.OptionCatalog{"A", "B", "C"}, options)

	// recorded votes survive a redefinition
	env.AssertTallies(pollID, 0, 1)
}

func TestDefinePoll_Validation(t *testing.T) {
	env := test.NewPollTestEnv(t)

	_, err := env.Registry.DefinePoll([]string{strings.Repeat("x", poll.OptionLabelMaxLength+1)})
	require.ErrorIs(t, err, poll.ErrOptionLabelTooLong)

	has, err := env.Registry.HasPoll(poll.DefaultPollID)
	require.NoError(t, err)
	require.False(t, has)

	// duplicate and empty labels are accepted
	_, err = env.Registry.DefinePoll([]string{"A", "A", ""})
	require.NoError(t, err)

	pollID, err := env.Registry.DefinePoll(nil, poll.WithPollID(9))
	require.NoError(t, err)
	require.Equal(t, poll.PollID(9), pollID)

	has, err = env.Registry.HasPoll(9)
	require.NoError(t, err)
	require.True(t, has)
}

func TestListOptions_Undefined(t *testing.T) {
	env := test.NewPollTestEnv(t)

	options, err := env.Registry.ListOptions(42)
	require.NoError(t, err)
	require.NotNil(t, options)
	require.Empty(t, options)
}

func TestCreatePoll(t *testing.T) {
	env := test.NewPollTestEnv(t)

	pollIDs, err := env.Registry.PollIDs()
	require.NoError(t, err)
	require.Empty(t, pollIDs)

	first, err := env.Registry.CreatePoll([]string{"A"})
	require.NoError(t, err)
	require.Equal(t, poll.DefaultPollID, first)

	second, err := env.Registry.CreatePoll([]string{"B"})
	require.NoError(t, err)
	require.Equal(t, poll.PollID(2), second)

	_, err = env.Registry.DefinePoll([]string{"C"}, poll.WithPollID(300))
	require.NoError(t, err)

	next, err := env.Registry.CreatePoll([]string{"D"})
	require.NoError(t, err)
	require.Equal(t, poll.PollID(301), next)

	pollIDs, err = env.Registry.PollIDs()
	require.NoError(t, err)
	require.Equal(t, []poll.PollID{1, 2, 300, 301}, pollIDs)

	_, err = env.Registry.DefinePoll([]string{"E"}, poll.WithPollID(1<<32-1))
	require.NoError(t, err)
	_, err = env.Registry.CreatePoll([]string{"F"})
	require.ErrorIs(t, err, poll.ErrPollIDsExhausted)
}

func TestCreatePoll_SkipsPollsWithVotes(t *testing.T) {
	env := test.NewPollTestEnv(t)

	_, err := env.Registry.DefinePoll([]string{"A", "B"})
	require.NoError(t, err)

	// votes on a poll without a catalog reserve its id
	env.RequireVote(env.Voter1, 2, 0)

	created, err := env.Registry.CreatePoll([]string{"fresh"})
	require.NoError(t, err)
	require.Equal(t, poll.PollID(3), created)
	env.AssertTallies(created)

	hasVoted, err := env.Ballots.HasVoted(created, env.Voter1.Identity)
	require.NoError(t, err)
	require.False(t, hasVoted)
	env.AssertTallies(2, 1)
}

func TestCreatePoll_OnlyVotes(t *testing.T) {
	env := test.NewPollTestEnv(t)

	env.RequireVote(env.Voter1, poll.DefaultPollID, 1)

	created, err := env.Registry.CreatePoll([]string{"fresh"})
	require.NoError(t, err)
	require.Equal(t, poll.PollID(2), created)
}

func TestDefinePoll_Event(t *testing.T) {
	env := test.NewPollTestEnv(t)

	var definedID poll.PollID
	var definedOptions poll.OptionCatalog
	env.Registry.Events.PollDefined.Attach(events.NewClosure(func(pollID poll.PollID, options poll.OptionCatalog) {
		definedID = pollID
		definedOptions = options
	}))

	_, err := env.Registry.DefinePoll([]string{"Yes", "No"}, poll.WithPollID(4))
	require.NoError(t, err)
	require.Equal(t, poll.PollID(4), definedID)
	require.Equal(t, poll.OptionCatalog{"Yes", "No"}, definedOptions)
}

func TestDefinePoll_StorageFailure(t *testing.T) {
	env := test.NewPollTestEnv(t)

	env.Store.FailReads(true)
	_, err := env.Registry.ListOptions(poll.DefaultPollID)
	require.ErrorIs(t, err, poll.ErrStorageFailure)

	_, err = env.Registry.HasPoll(poll.DefaultPollID)
	require.ErrorIs(t, err, poll.ErrStorageFailure)
}

func TestStatus(t *testing.T) {
	env := test.NewPollTestEnv(t)

	_, err := env.Registry.DefinePoll([]string{"Yes", "No"})
	require.NoError(t, err)
	env.RequireVote(env.Voter1, poll.DefaultPollID, 1)
	env.RequireVote(env.Voter2, poll.DefaultPollID, 1)

	status, err := poll.Status(env.Registry, env.Ballots, poll.DefaultPollID)
	require.NoError(t, err)
	require.Equal(t, &poll.PollStatus{
		PollID:     poll.DefaultPollID,
		Options:    poll.OptionCatalog{"Yes", "No"},
		Tallies:    poll.TallyVector{0, 2},
		TotalVotes: 2,
		Voters:     2,
	}, status)

	empty, err := poll.Status(env.Registry, env.Ballots, 77)
	require.NoError(t, err)
	require.Empty(t, empty.Options)
	require.Empty(t, empty.Tallies)
	require.Zero(t, empty.TotalVotes)
}

func TestParsePollID(t *testing.T) {
	pollID, err := poll.ParsePollID("12")
	require.NoError(t, err)
	require.Equal(t, poll.PollID(12), pollID)
	require.Equal(t, "12", pollID.String())

	for _, s := range []string{"", "-1", "abc", "4294967296"} {
		_, err := poll.ParsePollID(s)
		require.ErrorIs(t, err, poll.ErrInvalidPollID)
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	policy, ok := poll.ParseDuplicatePolicy("permit")
	require.True(t, ok)
	require.Equal(t, poll.DuplicatePolicyPermit, policy)
	require.Equal(t, "permit", policy.String())

	policy, ok = poll.ParseDuplicatePolicy("reject")
	require.True(t, ok)
	require.Equal(t, "reject", policy.String())

	_, ok = poll.ParseDuplicatePolicy("maybe")
	require.False(t, ok)
}
