package toolset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"
)

const (
	ToolEd25519Key  = "ed25519key"
	ToolEd25519Addr = "ed25519addr"
	ToolSignVote    = "sign-vote"
	ToolJWTVoter    = "jwt-voter"
	ToolJWTApi      = "jwt-api"
)

const (
	FlagToolOutputJSON = "json"
	FlagToolMnemonic   = "mnemonic"
	FlagToolBIP32Path  = "bip32Path"
	FlagToolPublicKey  = "publicKey"
	FlagToolPrivateKey = "privateKey"
	FlagToolPollID     = "pollID"
	FlagToolOption     = "optionIndex"
	FlagToolIdentity   = "identity"

	FlagToolDescriptionOutputJSON = "format output as JSON"

	// EnvVoterPrivateKey is read if no private key flag is given.
	EnvVoterPrivateKey = "TALLY_VOTER_PRIVATE_KEY"
)

type tool struct {
	description string
	handler     func(*configuration.Configuration, []string) error
}

func tools() map[string]tool {
	return map[string]tool{
		ToolEd25519Key:  {"generates an ed25519 voter key pair", generateEd25519Key},
		ToolEd25519Addr: {"derives the voter identity from an ed25519 public key", generateEd25519Address},
		ToolSignVote:    {"signs a vote and prints the request body for the REST API", signVote},
		ToolJWTVoter:    {"issues a JWT for a voter identity", generateJWTVoterToken},
		ToolJWTApi:      {"issues a JWT for the protected routes of the REST API", generateJWTApiToken},
	}
}

// ShouldHandleTools checks if tools were requested.
func ShouldHandleTools() bool {
	_, found := toolArgs()
	return found
}

func toolArgs() ([]string, bool) {
	args := os.Args[1:]

	for i, arg := range args {
		if strings.ToLower(arg) == "tool" || strings.ToLower(arg) == "tools" {
			return args[i:], true
		}
	}

	return nil, false
}

// HandleTools handles available tools.
func HandleTools(nodeConfig *configuration.Configuration) {

	args, toolFound := toolArgs()
	if !toolFound {
		// 'tool' was not found
		return
	}

	if len(args) == 1 {
		listTools()
		os.Exit(1)
	}

	t, exists := tools()[strings.ToLower(args[1])]
	if !exists {
		fmt.Print("tool not found.\n\n")
		listTools()
		os.Exit(1)
	}

	if err := t.handler(nodeConfig, args[2:]); err != nil {
		fmt.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}

func listTools() {
	for _, name := range []string{ToolEd25519Key, ToolEd25519Addr, ToolSignVote, ToolJWTVoter, ToolJWTApi} {
		fmt.Printf("%-15s %s\n", name+":", tools()[name].description)
	}
}

func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Check if all parameters were parsed
	if fs.NArg() != 0 {
		return fmt.Errorf("too much arguments: %s", strings.Join(fs.Args(), " "))
	}

	return nil
}

func printJSON(obj interface{}) error {
	output, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(output))
	return nil
}
