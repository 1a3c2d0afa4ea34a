package poll

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/tally/pkg/node"
)

const (
	// how repeated votes of the same identity are handled (reject/permit)
	CfgPollDuplicatePolicy = "poll.duplicatePolicy"
	// whether option indexes are validated against the option catalog of a defined poll
	CfgPollValidateOptionIndex = "poll.validateOptionIndex"
	// the maximum length of a tally vector (0 = unbounded)
	CfgPollMaxTallyLength = "poll.maxTallyLength"
	// whether the tallies of all polls are checked against the recorded voters at startup
	CfgPollCheckConsistency = "poll.checkConsistency"
	// the options of the default poll which are defined at startup if the default poll does not exist yet
	CfgPollDefaultOptions = "poll.defaultOptions"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgPollDuplicatePolicy, "reject", "how repeated votes of the same identity are handled (reject/permit)")
			fs.Bool(CfgPollValidateOptionIndex, false, "whether option indexes are validated against the option catalog of a defined poll")
			fs.Uint32(CfgPollMaxTallyLength, 1024, "the maximum length of a tally vector (0 = unbounded)")
			fs.Bool(CfgPollCheckConsistency, true, "whether the tallies of all polls are checked against the recorded voters at startup")
			fs.StringSlice(CfgPollDefaultOptions, nil, "the options of the default poll which are defined at startup if the default poll does not exist yet")
			return fs
		}(),
	},
	Masked: nil,
}
