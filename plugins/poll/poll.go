package poll

import (
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/jwt"
	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/restapi"
)

var (
	// ErrDuplicateVote is returned if the voter already voted in the poll.
	ErrDuplicateVote = echo.NewHTTPError(http.StatusConflict, "duplicate vote")
	// ErrUnauthorized is returned if the credential does not prove control over the voter identity.
	ErrUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	// ErrPollIDsExhausted is returned if no further poll can be created.
	ErrPollIDsExhausted = echo.NewHTTPError(http.StatusConflict, "poll ids exhausted")
)

// mapPollError translates the errors of the poll package into HTTP errors.
func mapPollError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, poll.ErrDuplicateVote):
		return errors.WithMessage(ErrDuplicateVote, err.Error())
	case errors.Is(err, poll.ErrUnauthorized):
		return errors.WithMessage(ErrUnauthorized, err.Error())
	case errors.Is(err, poll.ErrPollIDsExhausted):
		return errors.WithMessage(ErrPollIDsExhausted, err.Error())
	case errors.Is(err, poll.ErrOptionOutOfRange),
		errors.Is(err, poll.ErrInvalidVote),
		errors.Is(err, poll.ErrInvalidOptionCatalog),
		errors.Is(err, poll.ErrOptionLabelTooLong),
		errors.Is(err, poll.ErrTooManyOptions):
		return errors.WithMessage(restapi.ErrInvalidParameter, err.Error())
	default:
		return errors.WithMessagef(echo.ErrInternalServerError, "poll operation failed: %s", err)
	}
}

func getPolls(_ echo.Context) (*PollsResponse, error) {
	pollIDs, err := deps.Registry.PollIDs()
	if err != nil {
		return nil, mapPollError(err)
	}

	if pollIDs == nil {
		pollIDs = []poll.PollID{}
	}

	return &PollsResponse{PollIDs: pollIDs}, nil
}

func parseDefinePollRequest(c echo.Context) (*DefinePollRequest, error) {
	request := &DefinePollRequest{}
	if err := c.Bind(request); err != nil {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid request, error: %s", err)
	}

	return request, nil
}

func createPoll(c echo.Context) (*DefinePollResponse, error) {
	request, err := parseDefinePollRequest(c)
	if err != nil {
		return nil, err
	}

	pollID, err := deps.Registry.CreatePoll(request.Options)
	if err != nil {
		return nil, mapPollError(err)
	}

	return &DefinePollResponse{PollID: pollID}, nil
}

func definePoll(c echo.Context) (*DefinePollResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	request, err := parseDefinePollRequest(c)
	if err != nil {
		return nil, err
	}

	if _, err := deps.Registry.DefinePoll(request.Options, poll.WithPollID(pollID)); err != nil {
		return nil, mapPollError(err)
	}

	return &DefinePollResponse{PollID: pollID}, nil
}

func getPollStatus(c echo.Context) (*poll.PollStatus, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	status, err := poll.Status(deps.Registry, deps.BallotStore, pollID)
	if err != nil {
		return nil, mapPollError(err)
	}

	return status, nil
}

func getOptions(c echo.Context) (*OptionsResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	options, err := deps.Registry.ListOptions(pollID)
	if err != nil {
		return nil, mapPollError(err)
	}

	return &OptionsResponse{PollID: pollID, Options: options.Clone()}, nil
}

func getTallies(c echo.Context) (*TalliesResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	tallies, err := deps.BallotStore.ReadTallies(pollID)
	if err != nil {
		return nil, mapPollError(err)
	}

	return &TalliesResponse{PollID: pollID, Tallies: tallies.Clone()}, nil
}

func getTotalVotes(c echo.Context) (*TotalVotesResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	total, err := deps.BallotStore.TotalVotes(pollID)
	if err != nil {
		return nil, mapPollError(err)
	}

	return &TotalVotesResponse{PollID: pollID, TotalVotes: total}, nil
}

// voteCredential returns the credential of the vote request.
// A signature in the body takes precedence over a bearer token.
func voteCredential(c echo.Context, request *VoteRequest) ([]byte, error) {
	if request.Signature == "" && request.PublicKey == "" {
		token := jwt.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return nil, errors.WithMessage(ErrUnauthorized, "neither a signature nor a bearer token was given")
		}
		return []byte(token), nil
	}

	publicKey, err := hex.DecodeString(request.PublicKey)
	if err != nil {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid public key, error: %s", err)
	}

	signature, err := hex.DecodeString(request.Signature)
	if err != nil {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid signature, error: %s", err)
	}

	return append(publicKey, signature...), nil
}

func castVote(c echo.Context) (*VoteResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	request := &VoteRequest{}
	if err := c.Bind(request); err != nil {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid request, error: %s", err)
	}

	credential, err := voteCredential(c, request)
	if err != nil {
		return nil, err
	}

	vote := &poll.Vote{
		PollID:      pollID,
		Voter:       request.Voter,
		OptionIndex: request.OptionIndex,
	}

	accepted, err := deps.BallotStore.CastVote(vote, credential)
	if err != nil {
		return nil, mapPollError(err)
	}

	return &VoteResponse{
		Accepted:    accepted,
		PollID:      pollID,
		OptionIndex: request.OptionIndex,
	}, nil
}

func getVoter(c echo.Context) (*VoterResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	voter, err := restapi.ParseIdentityParam(c)
	if err != nil {
		return nil, err
	}

	voted, err := deps.BallotStore.HasVoted(pollID, voter)
	if err != nil {
		return nil, mapPollError(err)
	}

	return &VoterResponse{PollID: pollID, Voter: voter, Voted: voted}, nil
}

func getVoters(c echo.Context) (*VotersResponse, error) {
	pollID, err := restapi.ParsePollIDParam(c)
	if err != nil {
		return nil, err
	}

	pageSize, err := restapi.ParsePageSizeQueryParam(c, deps.RestAPILimitsMaxResults)
	if err != nil {
		return nil, err
	}

	voters := []identity.Identity{}
	if err := deps.BallotStore.ForEachVoter(pollID, func(voter poll.Identity) bool {
		voters = append(voters, voter)
		return true
	}, poll.MaxResultCount(pageSize)); err != nil {
		return nil, mapPollError(err)
	}

	return &VotersResponse{PollID: pollID, Voters: voters}, nil
}
