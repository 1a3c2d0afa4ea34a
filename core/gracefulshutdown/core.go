package gracefulshutdown

import (
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/shutdown"
)

const (
	// the maximum amount of time to wait for background processes to terminate. After that the process is killed.
	CfgNodeWaitToKillTime = "node.waitToKillTime"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Graceful Shutdown",
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

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.Duration(CfgNodeWaitToKillTime, 300*time.Second, "the maximum amount of time to wait for background processes to terminate")
			return fs
		}(),
	},
}

type dependencies struct {
	dig.In
	ShutdownHandler *shutdown.ShutdownHandler
}

func provide(c *dig.Container) {

	type handlerDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	if err := c.Provide(func(deps handlerDeps) *shutdown.ShutdownHandler {
		return shutdown.NewShutdownHandler(CorePlugin.Logger(), CorePlugin.Daemon(), deps.NodeConfig.Duration(CfgNodeWaitToKillTime))
	}); err != nil {
		CorePlugin.LogPanic(err)
	}
}

func configure() {
	deps.ShutdownHandler.Run()
}
