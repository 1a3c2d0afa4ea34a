package poll

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/websockethub"

	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/restapi"
	"github.com/gohornet/tally/pkg/shutdown"
	restapiplugin "github.com/gohornet/tally/plugins/restapi"
)

const (
	// RoutePolls is the route to list all defined polls.
	// GET returns the ids of all polls with an option catalog.
	RoutePolls = "/polls"

	// RoutePoll is the route to access a single poll.
	// GET returns the options, the tallies and the number of votes of the poll.
	RoutePoll = "/polls/:" + restapi.ParameterPollID

	// RoutePollOptions is the route to list the options of a poll.
	RoutePollOptions = "/polls/:" + restapi.ParameterPollID + "/options"

	// RoutePollTallies is the route to read the tallies of a poll.
	RoutePollTallies = "/polls/:" + restapi.ParameterPollID + "/tallies"

	// RoutePollTotal is the route to read the total number of votes of a poll.
	RoutePollTotal = "/polls/:" + restapi.ParameterPollID + "/total"

	// RoutePollVotes is the route to cast a vote.
	// POST casts the vote of the given voter.
	RoutePollVotes = "/polls/:" + restapi.ParameterPollID + "/votes"

	// RoutePollVoters is the route to list the identities which voted in a poll.
	RoutePollVoters = "/polls/:" + restapi.ParameterPollID + "/voters"

	// RoutePollVoter is the route to check whether an identity voted in a poll.
	RoutePollVoter = "/polls/:" + restapi.ParameterPollID + "/voters/:" + restapi.ParameterIdentity

	// RouteAdminPolls is the route to create a poll with the next free id.
	RouteAdminPolls = "/admin/polls"

	// RouteAdminPoll is the route to define or overwrite the options of a poll.
	RouteAdminPoll = "/admin/polls/:" + restapi.ParameterPollID

	// RouteStream is the route of the websocket which streams accepted votes.
	RouteStream = "/stream"
)

const (
	broadcastQueueSize    = 1000
	clientSendChannelSize = 100
	clientReadLimit       = 512
	webSocketWriteTimeout = 3 * time.Second
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "Poll",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies

	onVoteCast *events.Closure
)

type dependencies struct {
	dig.In
	Registry                *poll.Registry
	BallotStore             *poll.BallotStore
	TalliesHub              *websockethub.Hub
	RestRouteManager        *restapiplugin.RestRouteManager `optional:"true"`
	RestAPILimitsMaxResults int                             `name:"restAPILimitsMaxResults" optional:"true"`
}

func provide(c *dig.Container) {
	if err := c.Provide(func() *websockethub.Hub {
		upgrader := &websocket.Upgrader{
			HandshakeTimeout: webSocketWriteTimeout,
			CheckOrigin:      func(r *http.Request) bool { return true }, // allow any origin for websocket connections
		}

		return websockethub.NewHub(Plugin.Logger(), upgrader, broadcastQueueSize, clientSendChannelSize, clientReadLimit)
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

func configure() {
	if deps.RestRouteManager == nil {
		Plugin.LogPanic("the poll plugin needs the RestAPI plugin to be enabled")
	}

	setupRoutes(deps.RestRouteManager.AddRoute("poll/v1"))

	onVoteCast = events.NewClosure(func(voteCast *poll.VoteCast) {
		deps.TalliesHub.BroadcastMsg(newVoteCastMessage(voteCast))
	})
}

func run() {
	if err := Plugin.Daemon().BackgroundWorker("Tallies stream", func(ctx context.Context) {
		Plugin.LogInfo("Starting tallies stream ... done")
		deps.BallotStore.Events.VoteCast.Attach(onVoteCast)
		deps.TalliesHub.Run(ctx)
		deps.BallotStore.Events.VoteCast.Detach(onVoteCast)
		Plugin.LogInfo("Stopping tallies stream ... done")
	}, shutdown.PriorityTalliesStream); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}

func setupRoutes(routeGroup *echo.Group) {

	routeGroup.GET(RoutePolls, func(c echo.Context) error {
		resp, err := getPolls(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePoll, func(c echo.Context) error {
		resp, err := getPollStatus(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollOptions, func(c echo.Context) error {
		resp, err := getOptions(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollTallies, func(c echo.Context) error {
		resp, err := getTallies(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollTotal, func(c echo.Context) error {
		resp, err := getTotalVotes(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RoutePollVotes, func(c echo.Context) error {
		resp, err := castVote(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollVoters, func(c echo.Context) error {
		resp, err := getVoters(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollVoter, func(c echo.Context) error {
		resp, err := getVoter(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteAdminPolls, func(c echo.Context) error {
		resp, err := createPoll(c)
		if err != nil {
			return err
		}

		c.Response().Header().Set(echo.HeaderLocation, resp.PollID.String())
		return restapi.JSONResponse(c, http.StatusCreated, resp)
	})

	routeGroup.PUT(RouteAdminPoll, func(c echo.Context) error {
		resp, err := definePoll(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteStream, streamTallies)
}
