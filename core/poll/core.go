package poll

import (
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/tally/pkg/common"
	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/jwt"
	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/poll"
	"github.com/gohornet/tally/pkg/model/storage"
	"github.com/gohornet/tally/pkg/node"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Poll",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	NodeConfig  *configuration.Configuration `name:"nodeConfig"`
	Storage     *storage.Storage
	Registry    *poll.Registry
	BallotStore *poll.BallotStore
	PollMetrics *metrics.PollMetrics
}

// PublisherResult is provided by plugins which want to receive the facts of accepted votes.
type PublisherResult struct {
	dig.Out
	Publisher poll.Publisher `group:"pollPublishers"`
}

func provide(c *dig.Container) {

	if err := c.Provide(func() *metrics.PollMetrics {
		return metrics.NewPollMetrics()
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(poll.NewPollLocks); err != nil {
		CorePlugin.LogPanic(err)
	}

	type verifierDeps struct {
		dig.In
		JWTAuth *jwt.Auth `optional:"true"`
	}

	if err := c.Provide(func(deps verifierDeps) identity.Verifier {
		if deps.JWTAuth == nil {
			return identity.NewEd25519Verifier()
		}
		return identity.AnyOf(identity.NewEd25519Verifier(), identity.NewJWTVerifier(deps.JWTAuth))
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	type storeDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
		Storage    *storage.Storage
		PollLocks  *poll.PollLocks
		Verifier   identity.Verifier
		Publishers []poll.Publisher `group:"pollPublishers"`
	}

	if err := c.Provide(func(deps storeDeps) *poll.Registry {
		return poll.NewRegistry(deps.Storage.PollStore(),
			poll.WithLogger(CorePlugin.Logger()),
			poll.WithPollLocks(deps.PollLocks),
		)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(deps storeDeps) *poll.BallotStore {
		duplicatePolicy, ok := poll.ParseDuplicatePolicy(deps.NodeConfig.String(CfgPollDuplicatePolicy))
		if !ok {
			CorePlugin.LogPanicf("invalid value for '%s': %s", CfgPollDuplicatePolicy, deps.NodeConfig.String(CfgPollDuplicatePolicy))
		}

		return poll.NewBallotStore(deps.Storage.PollStore(), deps.Verifier,
			poll.WithLogger(CorePlugin.Logger()),
			poll.WithPollLocks(deps.PollLocks),
			poll.WithDuplicatePolicy(duplicatePolicy),
			poll.WithCatalogValidation(deps.NodeConfig.Bool(CfgPollValidateOptionIndex)),
			poll.WithMaxTallyLength(uint32(deps.NodeConfig.Int(CfgPollMaxTallyLength))),
			poll.WithPublisher(poll.MultiPublisher(deps.Publishers...)),
		)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}
}

func configure() {

	CorePlugin.LogInfof("duplicate policy: %s", deps.BallotStore.DuplicatePolicy())

	if err := defineDefaultPoll(); err != nil {
		CorePlugin.LogPanic(err)
	}

	if deps.NodeConfig.Bool(CfgPollCheckConsistency) {
		if err := checkConsistency(); err != nil {
			if markErr := deps.Storage.MarkTainted(); markErr != nil {
				CorePlugin.LogWarnf("marking database tainted failed: %s", markErr)
			}
			CorePlugin.LogPanic(err)
		}
	}

	configureEvents()
}

func defineDefaultPoll() error {
	options := deps.NodeConfig.Strings(CfgPollDefaultOptions)
	if len(options) == 0 {
		return nil
	}

	exists, err := deps.Registry.HasPoll(poll.DefaultPollID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := deps.Registry.DefinePoll(options); err != nil {
		return errors.Wrap(err, "defining the default poll failed")
	}
	CorePlugin.LogInfof("defined default poll with %d options", len(options))

	return nil
}

func checkConsistency() error {
	pollIDs, err := deps.BallotStore.VotedPollIDs()
	if err != nil {
		return err
	}

	for _, pollID := range pollIDs {
		if err := deps.BallotStore.CheckConsistency(pollID); err != nil {
			return common.CriticalError{Err: err}
		}
	}
	CorePlugin.LogInfof("checked the tallies of %d polls", len(pollIDs))

	return nil
}

func configureEvents() {
	deps.BallotStore.Events.VoteCast.Attach(events.NewClosure(func(_ *poll.VoteCast) {
		deps.PollMetrics.MarkVoteAccepted()
	}))

	deps.BallotStore.Events.VoteRejected.Attach(events.NewClosure(func(rejection *poll.VoteRejection) {
		switch {
		case errors.Is(rejection.Err, poll.ErrDuplicateVote):
			deps.PollMetrics.VotesDuplicate.Inc()
		case errors.Is(rejection.Err, poll.ErrUnauthorized):
			deps.PollMetrics.VotesUnauthorized.Inc()
		default:
			deps.PollMetrics.VotesFailed.Inc()
		}
	}))

	deps.Registry.Events.PollDefined.Attach(events.NewClosure(func(pollID poll.PollID, catalog poll.OptionCatalog) {
		deps.PollMetrics.PollsDefined.Inc()
		CorePlugin.LogDebugf("poll %d defined with %d options", pollID, len(catalog))
	}))
}
