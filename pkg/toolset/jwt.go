package toolset

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/jwt"
	"github.com/gohornet/tally/plugins/restapi"
)

func loadJWTAuth(nodeConfig *configuration.Configuration) (*jwt.Auth, error) {
	salt := nodeConfig.String(restapi.CfgRestAPIJWTAuthSalt)
	if len(salt) == 0 {
		return nil, fmt.Errorf("'%s' should not be empty", restapi.CfgRestAPIJWTAuthSalt)
	}

	jwtAuth, err := jwt.NewAuth(nodeConfig.String(restapi.CfgRestAPIJWTAuthNodeID), salt, nodeConfig.Duration(restapi.CfgRestAPIJWTAuthSessionTimeout))
	if err != nil {
		return nil, fmt.Errorf("JWT auth initialization failed: %w", err)
	}

	return jwtAuth, nil
}

func generateJWTApiToken(nodeConfig *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolJWTApi)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s", ToolJWTApi))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	jwtAuth, err := loadJWTAuth(nodeConfig)
	if err != nil {
		return err
	}

	// the operator token carries the node id as subject
	jwtToken, err := jwtAuth.IssueJWT(nodeConfig.String(restapi.CfgRestAPIJWTAuthNodeID))
	if err != nil {
		return fmt.Errorf("issuing JWT token failed: %w", err)
	}

	fmt.Println("Your API JWT token: ", jwtToken)

	return nil
}

func generateJWTVoterToken(nodeConfig *configuration.Configuration, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	identityFlag := fs.String(FlagToolIdentity, "", "the hex encoded voter identity")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolJWTVoter)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s",
			ToolJWTVoter,
			FlagToolIdentity,
			"[IDENTITY]"))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	voter, err := identity.ParseIdentity(*identityFlag)
	if err != nil {
		return fmt.Errorf("can't decode '%s': %w", FlagToolIdentity, err)
	}

	jwtAuth, err := loadJWTAuth(nodeConfig)
	if err != nil {
		return err
	}

	jwtToken, err := jwtAuth.IssueJWT(voter.String())
	if err != nil {
		return fmt.Errorf("issuing JWT token failed: %w", err)
	}

	fmt.Println("Your voter JWT token: ", jwtToken)

	return nil
}
