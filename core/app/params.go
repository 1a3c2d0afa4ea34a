package app

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/tally/pkg/node"
)

const (
	// CfgNodeDisablePlugins defines a list of plugins that shall be disabled
	CfgNodeDisablePlugins = "node.disablePlugins"
	// CfgNodeEnablePlugins defines a list of plugins that shall be enabled
	CfgNodeEnablePlugins = "node.enablePlugins"

	CfgConfigFilePathNodeConfig = "config"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.StringSlice(CfgNodeDisablePlugins, nil, "a list of plugins that shall be disabled")
			fs.StringSlice(CfgNodeEnablePlugins, nil, "a list of plugins that shall be enabled")
			return fs
		}(),
	},
	Masked: nil,
}
