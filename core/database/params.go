package database

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/tally/pkg/database"
	"github.com/gohornet/tally/pkg/node"
)

const (
	// the used database engine (pebble/mapdb)
	CfgDatabaseEngine = "db.engine"
	// the path to the database folder
	CfgDatabasePath = "db.path"
	// ignore the check for corrupted databases (should only be used for debug reasons)
	CfgDatabaseDebug = "db.debug"
	// whether to log the internal events of the database engine
	CfgDatabaseVerbose = "db.verbose"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgDatabaseEngine, string(database.EnginePebble), "the used database engine (pebble/mapdb)")
			fs.String(CfgDatabasePath, "polldb", "the path to the database folder")
			fs.Bool(CfgDatabaseDebug, false, "ignore the check for corrupted databases (should only be used for debug reasons)")
			fs.Bool(CfgDatabaseVerbose, false, "whether to log the internal events of the database engine")
			return fs
		}(),
	},
	Masked: nil,
}
