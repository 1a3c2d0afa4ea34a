package restapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/tally/pkg/jwt"
	"github.com/gohornet/tally/pkg/metrics"
	"github.com/gohornet/tally/pkg/model/storage"
	"github.com/gohornet/tally/pkg/node"
	"github.com/gohornet/tally/pkg/restapi"
	"github.com/gohornet/tally/pkg/shutdown"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "RestAPI",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies
)

type dependencies struct {
	dig.In
	NodeConfig         *configuration.Configuration `name:"nodeConfig"`
	Echo               *echo.Echo
	JWTAuth            *jwt.Auth
	Storage            *storage.Storage
	RestAPIMetrics     *metrics.RestAPIMetrics
	RestRouteManager   *RestRouteManager
	RestAPIBindAddress string `name:"restAPIBindAddress"`
}

func provide(c *dig.Container) {

	type cfgDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	type cfgResult struct {
		dig.Out
		RestAPIBindAddress      string `name:"restAPIBindAddress"`
		RestAPILimitsMaxResults int    `name:"restAPILimitsMaxResults"`
	}

	if err := c.Provide(func(deps cfgDeps) cfgResult {
		return cfgResult{
			RestAPIBindAddress:      deps.NodeConfig.String(CfgRestAPIBindAddress),
			RestAPILimitsMaxResults: deps.NodeConfig.Int(CfgRestAPILimitsMaxResults),
		}
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func() *metrics.RestAPIMetrics {
		return &metrics.RestAPIMetrics{}
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func(deps cfgDeps) *jwt.Auth {
		salt := deps.NodeConfig.String(CfgRestAPIJWTAuthSalt)
		if len(salt) == 0 {
			Plugin.LogFatalf("'%s' should not be empty", CfgRestAPIJWTAuthSalt)
		}

		jwtAuth, err := jwt.NewAuth(deps.NodeConfig.String(CfgRestAPIJWTAuthNodeID), salt, deps.NodeConfig.Duration(CfgRestAPIJWTAuthSessionTimeout))
		if err != nil {
			Plugin.LogPanicf("JWT auth initialization failed: %s", err)
		}

		return jwtAuth
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func(deps cfgDeps) *echo.Echo {
		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.CORS())
		e.Use(middleware.Gzip())

		maxBodyLength := deps.NodeConfig.String(CfgRestAPILimitsMaxBodyLength)
		if _, err := bytes.Parse(maxBodyLength); err != nil {
			Plugin.LogPanicf("invalid value for '%s': %s", CfgRestAPILimitsMaxBodyLength, err)
		}
		e.Use(middleware.BodyLimit(maxBodyLength))

		return e
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func(e *echo.Echo) *RestRouteManager {
		return newRestRouteManager(e)
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

func configure() {
	deps.Echo.HTTPErrorHandler = restapi.ErrorHandler(func(err error) {
		Plugin.LogDebugf("HTTP request failed: %s", err)
		deps.RestAPIMetrics.HTTPRequestErrorCounter.Inc()
	})

	if deps.NodeConfig.Bool(CfgRestAPIDebugRequestLoggerEnabled) {
		deps.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogLatency:      true,
			LogRemoteIP:     true,
			LogMethod:       true,
			LogURI:          true,
			LogUserAgent:    true,
			LogStatus:       true,
			LogError:        true,
			LogResponseSize: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				errString := ""
				if v.Error != nil {
					errString = fmt.Sprintf("error: \"%s\", ", v.Error.Error())
				}

				Plugin.LogDebugf("%d %s \"%s\", %sagent: \"%s\", remoteIP: %s, responseSize: %s, took: %v", v.Status, v.Method, v.URI, errString, v.UserAgent, v.RemoteIP, humanize.Bytes(uint64(v.ResponseSize)), v.Latency.Truncate(time.Millisecond))

				return nil
			},
		}))
	}

	deps.Echo.Use(requestCounterMiddleware(deps.RestAPIMetrics))
	deps.Echo.Use(apiMiddleware(
		deps.JWTAuth,
		deps.NodeConfig.String(CfgRestAPIJWTAuthNodeID),
		deps.NodeConfig.Strings(CfgRestAPIPublicRoutes),
		deps.NodeConfig.Strings(CfgRestAPIProtectedRoutes),
	))

	setupRoutes(deps.Echo, deps.Storage, deps.RestRouteManager)
}

func run() {

	Plugin.LogInfo("Starting REST-API server ...")

	if err := Plugin.Daemon().BackgroundWorker("REST-API server", func(ctx context.Context) {
		Plugin.LogInfo("Starting REST-API server ... done")

		bindAddr := deps.RestAPIBindAddress

		go func() {
			Plugin.LogInfof("You can now access the API using: http://%s", bindAddr)
			if err := deps.Echo.Start(bindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Plugin.LogWarnf("Stopped REST-API server due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Plugin.LogInfo("Stopping REST-API server ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCtxCancel()

		if err := deps.Echo.Shutdown(shutdownCtx); err != nil {
			Plugin.LogWarn(err)
		}

		Plugin.LogInfo("Stopping REST-API server ... done")
	}, shutdown.PriorityRestAPI); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}
