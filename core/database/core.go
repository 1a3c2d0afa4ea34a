package database

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/tally/pkg/common"
	"github.com/gohornet/tally/pkg/database"
	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/storage"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/shutdown"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Database",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	NodeConfig      *configuration.Configuration `name:"nodeConfig"`
	Database        *database.Database
	Storage         *storage.Storage
	DatabaseMetrics *metrics.DatabaseMetrics
}

func provide(c *dig.Container) {

	type databaseDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	if err := c.Provide(func(deps databaseDeps) *database.Database {
		engine, err := database.DatabaseEngine(deps.NodeConfig.String(CfgDatabaseEngine))
		if err != nil {
			CorePlugin.LogPanic(err)
		}

		CorePlugin.LogInfof("opening %s database ...", engine)
		db, err := database.New(deps.NodeConfig.String(CfgDatabasePath), engine, deps.NodeConfig.Bool(CfgDatabaseVerbose))
		if err != nil {
			CorePlugin.LogPanicf("opening database failed: %s", err)
		}

		return db
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(db *database.Database) *storage.Storage {
		store, err := storage.New(db.KVStore())
		if err != nil {
			CorePlugin.LogPanicf("initializing storage failed: %s", err)
		}
		return store
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func() *metrics.DatabaseMetrics {
		return &metrics.DatabaseMetrics{}
	}); err != nil {
		CorePlugin.LogPanic(err)
	}
}

func configure() {

	if err := deps.Storage.CheckHealth(); err != nil {
		var critical common.CriticalError
		if !deps.NodeConfig.Bool(CfgDatabaseDebug) || !errors.As(err, &critical) {
			CorePlugin.LogPanicf("%s. Please restore a backup or delete the database folder.", err)
		}
		CorePlugin.LogWarnf("ignoring unhealthy database: %s", err)
	}

	// the database is marked as healthy again on a clean shutdown
	if err := deps.Storage.MarkCorrupted(); err != nil {
		CorePlugin.LogPanic(err)
	}

	deps.Database.Events().DatabaseCompaction.Attach(events.NewClosure(func(running bool) {
		if running {
			deps.DatabaseMetrics.CompactionCount.Inc()
		}
		deps.DatabaseMetrics.CompactionRunning.Store(running)
	}))
}

func run() {
	if err := CorePlugin.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		CorePlugin.LogInfo("Syncing database to disk ...")
		if err := deps.Storage.Shutdown(); err != nil {
			CorePlugin.LogErrorf("marking database healthy failed: %s", err)
		}
		if err := deps.Database.Close(); err != nil {
			CorePlugin.LogErrorf("closing database failed: %s", err)
		}
		CorePlugin.LogInfo("Syncing database to disk ... done")
	}, shutdown.PriorityCloseDatabase); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}
