package metrics

import (
	"context"
	"time"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/timeutil"

	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/shutdown"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:     "Metrics",
			DepsFunc: func(cDeps dependencies) { deps = cDeps },
			Run:      run,
		},
	}

	Events = &pluginEvents{
		VPSMetricsUpdated: events.NewEvent(VPSMetricsCaller),
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies

	// Events are the events of the metrics plugin.
	Events *pluginEvents
)

type dependencies struct {
	dig.In
	PollMetrics *metrics.PollMetrics
}

type pluginEvents struct {
	// VPSMetricsUpdated is triggered every second with the votes of the last second.
	VPSMetricsUpdated *events.Event
}

func run() {
	// create a background worker that "measures" the VPS value every second
	if err := CorePlugin.Daemon().BackgroundWorker("Metrics VPS Updater", func(ctx context.Context) {
		ticker := timeutil.NewTicker(measureVPS, 1*time.Second, ctx)
		ticker.WaitForGracefulShutdown()
	}, shutdown.PriorityMetricsUpdater); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}
