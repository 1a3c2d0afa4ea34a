package mqtt

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/workerpool"

	coremetrics "github.com/gohornet/tally/core/metrics"
	corepoll "github.com/gohornet/tally/core/poll"
	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/poll"
	mqttpkg "github.com/gohornet/tally/pkg/mqtt"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/shutdown"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "MQTT",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

const (
	workerCount     = 1
	workerQueueSize = 10000
)

var (
	Plugin *node.Plugin
	deps   dependencies

	// ErrPublishQueueFull is returned by the publisher if the vote could not be queued.
	ErrPublishQueueFull = errors.New("mqtt publish queue full")
	// ErrInvalidPayload is returned by the publisher for facts it does not understand.
	ErrInvalidPayload = errors.New("invalid publish payload")

	publishWorkerPool *workerpool.WorkerPool

	onPollDefined      *events.Closure
	onVPSMetricsUpdate *events.Closure
)

type dependencies struct {
	dig.In
	Registry    *poll.Registry
	BallotStore *poll.BallotStore
	MQTTBroker  *mqttpkg.Broker
}

func provide(c *dig.Container) {

	type brokerDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	if err := c.Provide(func(deps brokerDeps) *mqttpkg.Broker {
		broker, err := mqttpkg.NewBroker(
			deps.NodeConfig.String(CfgMQTTBindAddress),
			deps.NodeConfig.Int(CfgMQTTWSPort),
			deps.NodeConfig.String(CfgMQTTWSPath),
			deps.NodeConfig.Int(CfgMQTTWorkerCount),
			onSubscribeTopic,
			nil,
			deps.NodeConfig.Int(CfgMQTTTopicCleanupThreshold),
		)
		if err != nil {
			Plugin.LogPanicf("MQTT broker init failed! %s", err)
		}
		return broker
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func(pollMetrics *metrics.PollMetrics) corepoll.PublisherResult {
		publishWorkerPool = workerpool.New(func(task workerpool.Task) {
			switch param := task.Param(0).(type) {
			case *voteCastPayload:
				publishVoteCast(param)
			case poll.PollID:
				publishTallies(param)
			}
			task.Return(nil)
		}, workerpool.WorkerCount(workerCount), workerpool.QueueSize(workerQueueSize), workerpool.FlushTasksAtShutdown(true))

		return corepoll.PublisherResult{Publisher: newVoteCastPublisher(publishWorkerPool, pollMetrics)}
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

func configure() {
	onPollDefined = events.NewClosure(func(pollID poll.PollID, catalog poll.OptionCatalog) {
		if deps.MQTTBroker.HasSubscribers(topicPolls) {
			publishOnTopic(topicPolls, &pollDefinedPayload{PollID: pollID, Options: catalog})
		}
	})

	onVPSMetricsUpdate = events.NewClosure(func(vpsMetrics *coremetrics.VPSMetrics) {
		if deps.MQTTBroker.HasSubscribers(topicMetricsVPS) {
			publishOnTopic(topicMetricsVPS, vpsMetrics)
		}
	})
}

func run() {

	if err := Plugin.Daemon().BackgroundWorker("MQTT Broker", func(ctx context.Context) {
		go func() {
			deps.MQTTBroker.Start()
			Plugin.LogInfof("Starting MQTT Broker (port %s) ... done", deps.MQTTBroker.Config().Port)
		}()

		if deps.MQTTBroker.Config().Port != "" {
			Plugin.LogInfof("You can now listen to MQTT via: http://%s:%s", deps.MQTTBroker.Config().Host, deps.MQTTBroker.Config().Port)
		}

		if deps.MQTTBroker.Config().WsPort != "" {
			Plugin.LogInfof("You can now listen to MQTT via: ws://%s:%s%s", deps.MQTTBroker.Config().Host, deps.MQTTBroker.Config().WsPort, deps.MQTTBroker.Config().WsPath)
		}

		<-ctx.Done()
		Plugin.LogInfo("Stopping MQTT Broker ...")
		Plugin.LogInfo("Stopping MQTT Broker ... done")
	}, shutdown.PriorityMQTTBroker); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}

	if err := Plugin.Daemon().BackgroundWorker("MQTT Events", func(ctx context.Context) {
		Plugin.LogInfo("Starting MQTT Events ... done")

		deps.Registry.Events.PollDefined.Attach(onPollDefined)
		coremetrics.Events.VPSMetricsUpdated.Attach(onVPSMetricsUpdate)

		publishWorkerPool.Start()

		<-ctx.Done()

		deps.Registry.Events.PollDefined.Detach(onPollDefined)
		coremetrics.Events.VPSMetricsUpdated.Detach(onVPSMetricsUpdate)

		publishWorkerPool.StopAndWait()

		Plugin.LogInfo("Stopping MQTT Events ... done")
	}, shutdown.PriorityMetricsPublishers); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}
