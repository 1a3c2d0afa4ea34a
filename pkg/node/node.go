package node

import (
	"fmt"
	"strings"
	"sync"

	flag "github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

type Node struct {
	wg              *sync.WaitGroup
	disabledPlugins map[string]struct{}
	enabledPlugins  map[string]struct{}
	corePluginsMap  map[string]*CorePlugin
	corePlugins     []*CorePlugin
	pluginsMap      map[string]*Plugin
	plugins         []*Plugin
	container       *dig.Container
	Logger          *logger.Logger
	options         *NodeOptions
}

func New(optionalOptions ...NodeOption) *Node {
	nodeOpts := &NodeOptions{}
	nodeOpts.apply(defaultNodeOptions...)
	nodeOpts.apply(optionalOptions...)

	node := &Node{
		wg:              &sync.WaitGroup{},
		disabledPlugins: make(map[string]struct{}),
		enabledPlugins:  make(map[string]struct{}),
		corePluginsMap:  make(map[string]*CorePlugin),
		corePlugins:     make([]*CorePlugin, 0),
		pluginsMap:      make(map[string]*Plugin),
		plugins:         make([]*Plugin, 0),
		container:       dig.New(dig.DeferAcyclicVerification()),
		options:         nodeOpts,
	}

	// initialize the core plugins and plugins
	node.init()

	// initialize logger after init phase because plugins could modify it
	node.Logger = logger.NewLogger("Node")

	// configure the core plugins and enabled plugins
	node.configure()

	return node
}

func Start(optionalOptions ...NodeOption) *Node {
	node := New(optionalOptions...)
	node.Start()

	return node
}

func Run(optionalOptions ...NodeOption) *Node {
	node := New(optionalOptions...)
	node.Run()

	return node
}

// IsSkipped returns whether the plugin is loaded or skipped.
func (n *Node) IsSkipped(plugin *Plugin) bool {
	return (plugin.Status == StatusDisabled || n.isDisabled(plugin)) &&
		(plugin.Status == StatusEnabled || !n.isEnabled(plugin))
}

func (n *Node) isDisabled(plugin *Plugin) bool {
	_, exists := n.disabledPlugins[plugin.Identifier()]
	return exists
}

func (n *Node) isEnabled(plugin *Plugin) bool {
	_, exists := n.enabledPlugins[plugin.Identifier()]
	return exists
}

func (n *Node) collectParams(pluggable *Pluggable, params map[string][]*flag.FlagSet, masked []string) []string {
	if pluggable.Params == nil {
		return masked
	}
	for k, v := range pluggable.Params.Params {
		params[k] = append(params[k], v)
	}

	return append(masked, pluggable.Params.Masked...)
}

func (n *Node) init() {

	if n.options.initPlugin == nil {
		panic("you must configure the node with an InitPlugin")
	}

	params := map[string][]*flag.FlagSet{}
	masked := []string{}

	masked = n.collectParams(&n.options.initPlugin.Pluggable, params, masked)
	for _, corePlugin := range n.options.corePlugins {
		masked = n.collectParams(&corePlugin.Pluggable, params, masked)
	}
	for _, plugin := range n.options.plugins {
		masked = n.collectParams(&plugin.Pluggable, params, masked)
	}

	initCfg, err := n.options.initPlugin.Init(params, masked)
	if err != nil {
		panic(fmt.Errorf("unable to initialize node: %w", err))
	}

	for _, name := range initCfg.EnabledPlugins {
		n.enabledPlugins[strings.ToLower(name)] = struct{}{}
	}

	for _, name := range initCfg.DisabledPlugins {
		n.disabledPlugins[strings.ToLower(name)] = struct{}{}
	}

	for _, corePlugin := range n.options.corePlugins {
		n.addCorePlugin(corePlugin)
	}

	for _, plugin := range n.options.plugins {
		if n.IsSkipped(plugin) {
			continue
		}
		n.addPlugin(plugin)
	}

	if n.options.initPlugin.Provide == nil {
		panic(fmt.Errorf("the init plugin must have a provide func"))
	}
	n.options.initPlugin.Node = n
	n.options.initPlugin.Provide(n.container)

	if n.options.initPlugin.DepsFunc != nil {
		if err := n.container.Invoke(n.options.initPlugin.DepsFunc); err != nil {
			panic(err)
		}
	}

	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		corePlugin.Node = n
		if corePlugin.Provide != nil {
			corePlugin.Provide(n.container)
		}
		return true
	})

	n.ForEachPlugin(func(plugin *Plugin) bool {
		plugin.Node = n
		if plugin.Provide != nil {
			plugin.Provide(n.container)
		}
		return true
	})

	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		if corePlugin.DepsFunc != nil {
			if err := n.container.Invoke(corePlugin.DepsFunc); err != nil {
				panic(err)
			}
		}
		return true
	})

	n.ForEachPlugin(func(plugin *Plugin) bool {
		if plugin.DepsFunc != nil {
			if err := n.container.Invoke(plugin.DepsFunc); err != nil {
				panic(err)
			}
		}
		return true
	})
}

func (n *Node) configure() {

	if n.options.initPlugin.Configure != nil {
		n.options.initPlugin.Configure()
	}

	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		corePlugin.wg = n.wg

		if corePlugin.Configure != nil {
			corePlugin.Configure()
		}
		n.Logger.Infof("Loading core plugin: %s ... done", corePlugin.Name)
		return true
	})

	n.ForEachPlugin(func(plugin *Plugin) bool {
		plugin.wg = n.wg

		if plugin.Configure != nil {
			plugin.Configure()
		}
		n.Logger.Infof("Loading plugin: %s ... done", plugin.Name)
		return true
	})
}

func (n *Node) execute() {
	n.Logger.Info("Executing core plugins ...")

	if n.options.initPlugin.Run != nil {
		n.options.initPlugin.Run()
	}

	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		if corePlugin.Run != nil {
			corePlugin.Run()
		}
		n.Logger.Infof("Starting core plugin: %s ... done", corePlugin.Name)
		return true
	})

	n.Logger.Info("Executing plugins ...")

	n.ForEachPlugin(func(plugin *Plugin) bool {
		if plugin.Run != nil {
			plugin.Run()
		}
		n.Logger.Infof("Starting plugin: %s ... done", plugin.Name)
		return true
	})
}

func (n *Node) Start() {
	n.execute()

	n.Logger.Info("Starting background workers ...")
	n.Daemon().Start()
}

func (n *Node) Run() {
	n.execute()

	n.Logger.Info("Starting background workers ...")
	n.Daemon().Run()

	n.Logger.Info("Shutdown complete!")
}

func (n *Node) Shutdown() {
	n.Daemon().ShutdownAndWait()
}

func (n *Node) Daemon() daemon.Daemon {
	return n.options.daemon
}

func (n *Node) addCorePlugin(corePlugin *CorePlugin) {
	name := corePlugin.Name

	if _, exists := n.corePluginsMap[name]; exists {
		panic("duplicate core plugin - \"" + name + "\" was defined already")
	}

	n.corePluginsMap[name] = corePlugin
	n.corePlugins = append(n.corePlugins, corePlugin)
}

func (n *Node) addPlugin(plugin *Plugin) {
	name := plugin.Name

	if _, exists := n.pluginsMap[name]; exists {
		panic("duplicate plugin - \"" + name + "\" was defined already")
	}

	n.pluginsMap[name] = plugin
	n.plugins = append(n.plugins, plugin)
}

// CorePluginForEachFunc is used in ForEachCorePlugin.
// Returning false indicates to stop looping.
type CorePluginForEachFunc func(corePlugin *CorePlugin) bool

// ForEachCorePlugin calls the given CorePluginForEachFunc on each loaded core plugin.
func (n *Node) ForEachCorePlugin(f CorePluginForEachFunc) {
	for _, corePlugin := range n.corePlugins {
		if !f(corePlugin) {
			break
		}
	}
}

// PluginForEachFunc is used in ForEachPlugin.
// Returning false indicates to stop looping.
type PluginForEachFunc func(plugin *Plugin) bool

// ForEachPlugin calls the given PluginForEachFunc on each loaded plugin.
func (n *Node) ForEachPlugin(f PluginForEachFunc) {
	for _, plugin := range n.plugins {
		if !f(plugin) {
			break
		}
	}
}
