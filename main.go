package main

import (
	"github.com/gohornet/tally/core/app"
	"github.com/gohornet/tally/core/database"
	"github.com/gohornet/tally/core/gracefulshutdown"
	"github.com/gohornet/tally/core/metrics"
	"github.com/gohornet/tally/core/poll"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/plugins/mqtt"
	pollplugin "github.com/gohornet/tally/plugins/poll"
	"github.com/gohornet/tally/plugins/profiling"
	"github.com/gohornet/tally/plugins/prometheus"
	"github.com/gohornet/tally/plugins/restapi"
	"github.com/gohornet/tally/plugins/versioncheck"
)

func main() {
	node.Run(
		node.WithInitPlugin(app.InitPlugin),
		node.WithCorePlugins(
			gracefulshutdown.CorePlugin,
			database.CorePlugin,
			poll.CorePlugin,
			metrics.CorePlugin,
		),
		node.WithPlugins(
			restapi.Plugin,
			pollplugin.Plugin,
			mqtt.Plugin,
			prometheus.Plugin,
			profiling.Plugin,
			versioncheck.Plugin,
		),
	)
}
