package node

import (
	"strings"
	"sync"

	flag "github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

// PluginParams defines the parameters configuration of a plugin.
type PluginParams struct {
	// The parameters of the plugin under for the defined configuration.
	Params map[string]*flag.FlagSet
	// The configuration values to mask.
	Masked []string
}

// Pluggable is something which extends the Node's capabilities.
type Pluggable struct {
	// A reference to the Node instance.
	Node *Node
	// The name of the plugin.
	Name string
	// The config parameters for this plugin.
	Params *PluginParams
	// The function to call to initialize the plugin dependencies.
	DepsFunc interface{}
	// Provide gets called in the provide stage of node initialization.
	Provide ProvideFunc
	// Configure gets called in the configure stage of node initialization.
	Configure Callback
	// Run gets called in the run stage of node initialization.
	Run Callback

	log     *logger.Logger
	logOnce sync.Once
	wg      *sync.WaitGroup
}

// Logger instantiates and returns a logger with the name of the plugin.
func (p *Pluggable) Logger() *logger.Logger {
	p.logOnce.Do(func() {
		p.log = logger.NewLogger(p.Name)
	})

	return p.log
}

func (p *Pluggable) Daemon() daemon.Daemon {
	return p.Node.Daemon()
}

// LogDebug uses fmt.Sprint to construct and log a message.
func (p *Pluggable) LogDebug(args ...interface{}) {
	p.Logger().Debug(args...)
}

// LogDebugf uses fmt.Sprintf to log a templated message.
func (p *Pluggable) LogDebugf(template string, args ...interface{}) {
	p.Logger().Debugf(template, args...)
}

// LogError uses fmt.Sprint to construct and log a message.
func (p *Pluggable) LogError(args ...interface{}) {
	p.Logger().Error(args...)
}

// LogErrorf uses fmt.Sprintf to log a templated message.
func (p *Pluggable) LogErrorf(template string, args ...interface{}) {
	p.Logger().Errorf(template, args...)
}

// LogFatal uses fmt.Sprint to construct and log a message, then calls os.Exit.
func (p *Pluggable) LogFatal(args ...interface{}) {
	p.Logger().Fatal(args...)
}

// LogFatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func (p *Pluggable) LogFatalf(template string, args ...interface{}) {
	p.Logger().Fatalf(template, args...)
}

// LogInfo uses fmt.Sprint to construct and log a message.
func (p *Pluggable) LogInfo(args ...interface{}) {
	p.Logger().Info(args...)
}

// LogInfof uses fmt.Sprintf to log a templated message.
func (p *Pluggable) LogInfof(template string, args ...interface{}) {
	p.Logger().Infof(template, args...)
}

// LogWarn uses fmt.Sprint to construct and log a message.
func (p *Pluggable) LogWarn(args ...interface{}) {
	p.Logger().Warn(args...)
}

// LogWarnf uses fmt.Sprintf to log a templated message.
func (p *Pluggable) LogWarnf(template string, args ...interface{}) {
	p.Logger().Warnf(template, args...)
}

// LogPanic uses fmt.Sprint to construct and log a message, then panics.
func (p *Pluggable) LogPanic(args ...interface{}) {
	p.Logger().Panic(args...)
}

// LogPanicf uses fmt.Sprintf to log a templated message, then panics.
func (p *Pluggable) LogPanicf(template string, args ...interface{}) {
	p.Logger().Panicf(template, args...)
}

// InitPlugin is the module initializing configuration of the node.
// A Node can only have one of such modules.
type InitPlugin struct {
	Pluggable
	// Init gets called in the initialization stage of the node.
	Init InitFunc
	// The configs this InitPlugin brings to the node.
	Configs map[string]*configuration.Configuration
}

// CorePlugin is a plugin essential for node operation.
// It can not be disabled.
type CorePlugin struct {
	Pluggable
}

const (
	StatusDisabled = iota
	StatusEnabled
)

type Plugin struct {
	Pluggable
	// The status of the plugin.
	Status int
}

func (p *Plugin) Identifier() string {
	return strings.ToLower(strings.Replace(p.Name, " ", "", -1))
}

// ProvideFunc gets called with a dig.Container.
type ProvideFunc func(c *dig.Container)

// InitConfig describes the result of a node initialization.
type InitConfig struct {
	EnabledPlugins  []string
	DisabledPlugins []string
}

// InitFunc gets called as the initialization function of the node.
type InitFunc func(params map[string][]*flag.FlagSet, maskedKeys []string) (*InitConfig, error)

// Callback is a function called without any arguments.
type Callback func()
