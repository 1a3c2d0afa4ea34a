package poll

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/websockethub"

	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/restapi"
)

const (
	// QueryParameterPollID restricts the stream to a single poll.
	QueryParameterPollID = "pollId"

	MsgTypeVoteCast   = "vote_cast"
	MsgTypePollStatus = "poll_status"
)

func newVoteCastMessage(voteCast *poll.VoteCast) *VoteCastMessage {
	return &VoteCastMessage{
		Type:        MsgTypeVoteCast,
		PollID:      voteCast.PollID,
		OptionIndex: voteCast.OptionIndex,
		Count:       voteCast.Count,
		Tallies:     voteCast.Tallies.Clone(),
	}
}

// streamTallies upgrades the request to a websocket which receives every accepted vote.
// If a poll id is given, the client receives the status of the poll first and only the votes of that poll.
func streamTallies(c echo.Context) error {
	var pollID *poll.PollID

	if pollIDParam := strings.TrimSpace(c.QueryParam(QueryParameterPollID)); pollIDParam != "" {
		id, err := poll.ParsePollID(pollIDParam)
		if err != nil {
			return errors.WithMessagef(restapi.ErrInvalidParameter, "invalid poll ID: %s, error: %s", pollIDParam, err)
		}
		pollID = &id
	}

	deps.TalliesHub.ServeWebsocket(c.Response(), c.Request(),
		// onCreate gets called when the client is created
		func(client *websockethub.Client) {
			if pollID == nil {
				return
			}

			client.FilterCallback = func(_ *websockethub.Client, data interface{}) bool {
				return voteCastOfPoll(data, *pollID)
			}
		},
		// onConnect gets called when the client was registered
		func(client *websockethub.Client) {
			if pollID == nil {
				return
			}

			status, err := poll.Status(deps.Registry, deps.BallotStore, *pollID)
			if err != nil {
				Plugin.LogWarnf("reading status of poll %d failed: %s", *pollID, err)
				return
			}
			client.Send(&PollStatusMessage{Type: MsgTypePollStatus, PollStatus: status})
		})

	return nil
}

func voteCastOfPoll(data interface{}, pollID poll.PollID) bool {
	msg, ok := data.(*VoteCastMessage)
	return ok && msg.PollID == pollID
}
