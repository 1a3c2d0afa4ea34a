package poll

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/model/poll/test"
	"github.com/gohornet/tally/pkg/restapi"
)

type apiTestEnv struct {
	*test.PollTestEnv
	echo *echo.Echo
}

func newAPITestEnv(t *testing.T, opts ...poll.Option) *apiTestEnv {
	env := test.NewPollTestEnv(t, opts...)

	deps = dependencies{
		Registry:                env.Registry,
		BallotStore:             env.Ballots,
		RestAPILimitsMaxResults: 2,
	}

	e := echo.New()
	e.HTTPErrorHandler = restapi.ErrorHandler(nil)
	setupRoutes(e.Group("/api/poll/v1"))

	return &apiTestEnv{PollTestEnv: env, echo: e}
}

func (env *apiTestEnv) request(t *testing.T, method string, path string, body interface{}, result interface{}) int {
	var reqBody string
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = string(b)
	}

	req := httptest.NewRequest(method, "/api/poll/v1"+path, strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)

	if result != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), result))
	}

	return rec.Code
}

func signedVoteRequest(voter *test.Voter, pollID poll.PollID, optionIndex uint32) *VoteRequest {
	vote, credential := voter.Vote(pollID, optionIndex)

	return &VoteRequest{
		Voter:       vote.Voter,
		OptionIndex: optionIndex,
		PublicKey:   hex.EncodeToString(credential[:32]),
		Signature:   hex.EncodeToString(credential[32:]),
	}
}

func TestAPI_DefineAndReadPoll(t *testing.T) {
	env := newAPITestEnv(t)

	created := &DefinePollResponse{}
	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, "/admin/polls", &DefinePollRequest{Options: []string{"Go", "Rust"}}, created))
	require.Equal(t, poll.DefaultPollID, created.PollID)

	defined := &DefinePollResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodPut, "/admin/polls/5", &DefinePollRequest{Options: []string{"yes", "no", "abstain"}}, defined))
	require.Equal(t, poll.PollID(5), defined.PollID)

	polls := &PollsResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls", nil, polls))
	require.Equal(t, []poll.PollID{1, 5}, polls.PollIDs)

	options := &OptionsResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/5/options", nil, options))
	require.Equal(t, []string{"yes", "no", "abstain"}, options.Options)

	// unknown polls are empty, not missing
	options = &OptionsResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/9/options", nil, options))
	require.Empty(t, options.Options)

	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodGet, "/polls/abc/options", nil, nil))
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPut, "/admin/polls/5", &DefinePollRequest{Options: []string{strings.Repeat("x", 256)}}, nil))
}

func TestAPI_CastVote(t *testing.T) {
	env := newAPITestEnv(t)

	resp := &VoteResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodPost, "/polls/1/votes", signedVoteRequest(env.Voter1, 1, 2), resp))
	require.True(t, resp.Accepted)

	// second vote of the same identity
	require.Equal(t, http.StatusConflict, env.request(t, http.MethodPost, "/polls/1/votes", signedVoteRequest(env.Voter1, 1, 0), nil))

	// signed for another poll
	require.Equal(t, http.StatusUnauthorized, env.request(t, http.MethodPost, "/polls/1/votes", signedVoteRequest(env.Voter2, 2, 0), nil))

	// no credential at all
	require.Equal(t, http.StatusUnauthorized, env.request(t, http.MethodPost, "/polls/1/votes", &VoteRequest{Voter: env.Voter2.Identity}, nil))

	// malformed signature
	invalid := signedVoteRequest(env.Voter2, 1, 0)
	invalid.Signature = "zz"
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, "/polls/1/votes", invalid, nil))

	tallies := &TalliesResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1/tallies", nil, tallies))
	require.Equal(t, []uint64{0, 0, 1}, tallies.Tallies)

	total := &TotalVotesResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1/total", nil, total))
	require.Equal(t, uint64(1), total.TotalVotes)

	env.AssertConsistent(1)
}

func TestAPI_CastVote_OptionOutOfRange(t *testing.T) {
	env := newAPITestEnv(t, poll.WithCatalogValidation(true))

	_, err := env.Registry.DefinePoll([]string{"a", "b"})
	require.NoError(t, err)

	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, "/polls/1/votes", signedVoteRequest(env.Voter1, 1, 2), nil))
	require.Equal(t, http.StatusOK, env.request(t, http.MethodPost, "/polls/1/votes", signedVoteRequest(env.Voter1, 1, 1), nil))
}

func TestAPI_StorageFailure(t *testing.T) {
	env := newAPITestEnv(t)

	env.Store.FailCommits(true)
	require.Equal(t, http.StatusInternalServerError, env.request(t, http.MethodPost, "/polls/1/votes", signedVoteRequest(env.Voter1, 1, 0), nil))

	env.Store.FailCommits(false)
	env.AssertTallies(1)
}

func TestAPI_PollStatusAndVoters(t *testing.T) {
	env := newAPITestEnv(t)

	_, err := env.Registry.DefinePoll([]string{"a", "b"})
	require.NoError(t, err)

	env.RequireVote(env.Voter1, 1, 0)
	env.RequireVote(env.Voter2, 1, 1)
	env.RequireVote(env.Voter3, 1, 1)

	status := &poll.PollStatus{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1", nil, status))
	require.Equal(t, poll.OptionCatalog{"a", "b"}, status.Options)
	require.Equal(t, poll.TallyVector{1, 2}, status.Tallies)
	require.Equal(t, uint64(3), status.TotalVotes)
	require.Equal(t, uint64(3), status.Voters)

	voter := &VoterResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1/voters/"+env.Voter2.Identity.String(), nil, voter))
	require.True(t, voter.Voted)

	voter = &VoterResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1/voters/"+env.Voter4.Identity.String(), nil, voter))
	require.False(t, voter.Voted)

	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodGet, "/polls/1/voters/0x1234", nil, nil))

	// capped by the max results
	voters := &VotersResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1/voters", nil, voters))
	require.Len(t, voters.Voters, 2)

	voters = &VotersResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/polls/1/voters?pageSize=1", nil, voters))
	require.Len(t, voters.Voters, 1)
	require.Contains(t, []identity.Identity{env.Voter1.Identity, env.Voter2.Identity, env.Voter3.Identity}, voters.Voters[0])
}

func TestNewVoteCastMessage(t *testing.T) {
	tallies := poll.TallyVector{3, 1}
	msg := newVoteCastMessage(&poll.VoteCast{
		Topic:       poll.TopicPoll,
		Subtopic:    poll.SubtopicVoteCast,
		PollID:      4,
		OptionIndex: 1,
		Count:       1,
		Tallies:     tallies,
	})

	require.Equal(t, MsgTypeVoteCast, msg.Type)
	require.Equal(t, poll.PollID(4), msg.PollID)
	require.Equal(t, []uint64{3, 1}, msg.Tallies)

	// the message must not share the tally vector
	tallies[0] = 7
	require.Equal(t, uint64(3), msg.Tallies[0])
}

func TestVoteCastOfPoll(t *testing.T) {
	msg := newVoteCastMessage(&poll.VoteCast{PollID: 2, OptionIndex: 0, Count: 1, Tallies: poll.TallyVector{1}})

	require.True(t, voteCastOfPoll(msg, 2))
	require.False(t, voteCastOfPoll(msg, 3))
	require.False(t, voteCastOfPoll(&PollStatusMessage{Type: MsgTypePollStatus}, 2))
}
