package restapi

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/tally/pkg/node"
)

const (
	// the bind address on which the REST API listens on
	CfgRestAPIBindAddress = "restapi.bindAddress"
	// the HTTP REST routes which can be called without authorization. Wildcards using * are allowed
	CfgRestAPIPublicRoutes = "restapi.publicRoutes"
	// the HTTP REST routes which need to be called with authorization. Wildcards using * are allowed
	CfgRestAPIProtectedRoutes = "restapi.protectedRoutes"
	// whether the debug logging for requests should be enabled
	CfgRestAPIDebugRequestLoggerEnabled = "restapi.debugRequestLoggerEnabled"
	// the id of the node used as audience and issuer of the JWT tokens
	CfgRestAPIJWTAuthNodeID = "restapi.jwtAuth.nodeID"
	// salt used inside the JWT tokens for the REST API. Change this to a different value to invalidate JWT tokens not matching this new value
	CfgRestAPIJWTAuthSalt = "restapi.jwtAuth.salt"
	// how long issued JWT tokens are valid (0 = forever)
	CfgRestAPIJWTAuthSessionTimeout = "restapi.jwtAuth.sessionTimeout"
	// the maximum number of characters that the body of an API call may contain
	CfgRestAPILimitsMaxBodyLength = "restapi.limits.maxBodyLength"
	// the maximum number of results that may be returned by an endpoint
	CfgRestAPILimitsMaxResults = "restapi.limits.maxResults"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgRestAPIBindAddress, "0.0.0.0:14280", "the bind address on which the REST API listens on")
			fs.StringSlice(CfgRestAPIPublicRoutes, []string{
				"/health",
				"/api/routes",
				"/api/poll/v1/polls*",
				"/api/poll/v1/stream",
			}, "the HTTP REST routes which can be called without authorization. Wildcards using * are allowed")
			fs.StringSlice(CfgRestAPIProtectedRoutes, []string{
				"/api/*",
			}, "the HTTP REST routes which need to be called with authorization. Wildcards using * are allowed")
			fs.Bool(CfgRestAPIDebugRequestLoggerEnabled, false, "whether the debug logging for requests should be enabled")
			fs.String(CfgRestAPIJWTAuthNodeID, "tally", "the id of the node used as audience and issuer of the JWT tokens")
			fs.String(CfgRestAPIJWTAuthSalt, "TALLY", "salt used inside the JWT tokens for the REST API. Change this to a different value to invalidate JWT tokens not matching this new value")
			fs.Duration(CfgRestAPIJWTAuthSessionTimeout, 0, "how long issued JWT tokens are valid (0 = forever)")
			fs.String(CfgRestAPILimitsMaxBodyLength, "1M", "the maximum number of characters that the body of an API call may contain")
			fs.Int(CfgRestAPILimitsMaxResults, 1000, "the maximum number of results that may be returned by an endpoint")
			return fs
		}(),
	},
	Masked: []string{CfgRestAPIJWTAuthSalt},
}
