package versioncheck

import (
	"context"
	"strings"
	"time"

	"github.com/tcnksm/go-latest"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/timeutil"

	"github.com/gohornet/tally/core/app"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/shutdown"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "VersionCheck",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Configure: configure,
			Run:       run,
		},
	}
}

const (
	githubOwner      = "gohornet"
	githubRepository = "tally"
)

var (
	Plugin *node.Plugin
	deps   dependencies

	githubTag *latest.GithubTag
)

type dependencies struct {
	dig.In
	AppInfo *app.AppInfo
}

func configure() {
	githubTag = &latest.GithubTag{
		Owner:             githubOwner,
		Repository:        githubRepository,
		FixVersionStrFunc: fixVersion,
		TagFilterFunc: func(version string) bool {
			return includeVersionInCheck(deps.AppInfo.Version, version)
		},
	}

	checkLatestVersion()
}

func run() {
	// create a background worker that checks for latest version every hour
	if err := Plugin.Daemon().BackgroundWorker("Version update checker", func(ctx context.Context) {
		ticker := timeutil.NewTicker(checkLatestVersion, 1*time.Hour, ctx)
		ticker.WaitForGracefulShutdown()
	}, shutdown.PriorityUpdateCheck); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}

func fixVersion(version string) string {
	ver := strings.Replace(version, "v", "", 1)
	if !strings.Contains(ver, "-rc.") {
		ver = strings.Replace(ver, "-rc", "-rc.", 1)
	}
	return ver
}

func isPrerelease(version string) bool {
	return strings.Contains(version, "-rc")
}

// includeVersionInCheck returns whether a released version is a candidate for an update of the running version.
func includeVersionInCheck(runningVersion string, version string) bool {
	if isPrerelease(runningVersion) {
		// When using pre-release versions, check for any updates
		return true
	}

	return !isPrerelease(version)
}

func checkLatestVersion() {

	res, err := latest.Check(githubTag, fixVersion(deps.AppInfo.Version))
	if err != nil {
		Plugin.LogWarnf("Update check failed: %s", err)
		return
	}

	if res.Outdated {
		Plugin.LogInfof("Update to %s available on https://github.com/%s/%s/releases/latest", res.Current, githubOwner, githubRepository)
		deps.AppInfo.LatestGitHubVersion = res.Current
	}
}
