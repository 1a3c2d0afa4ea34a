package restapi

import (
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gohornet/tally/pkg/jwt"
	"github.com/gohornet/tally/pkg/metrics"
)

// compileRouteAsRegex compiles a route with * wildcards into an anchored regular expression.
func compileRouteAsRegex(route string) *regexp.Regexp {

	r := regexp.QuoteMeta(route)
	r = strings.ReplaceAll(r, `\*`, "(.*?)")
	r += "$"

	reg, err := regexp.Compile(r)
	if err != nil {
		return nil
	}

	return reg
}

func compileRoutesAsRegexes(routes []string) []*regexp.Regexp {
	regexes := make([]*regexp.Regexp, 0, len(routes))
	for _, route := range routes {
		reg := compileRouteAsRegex(route)
		if reg == nil {
			continue
		}
		regexes = append(regexes, reg)
	}
	return regexes
}

func matchesAnyRoute(regexes []*regexp.Regexp, path string) bool {
	for _, reg := range regexes {
		if reg.MatchString(path) {
			return true
		}
	}
	return false
}

// apiMiddleware lets public routes pass and requires an operator JWT on protected routes.
// Routes which are neither public nor protected are passed to the router.
func apiMiddleware(jwtAuth *jwt.Auth, nodeID string, publicRoutes []string, protectedRoutes []string) echo.MiddlewareFunc {

	publicRoutesRegEx := compileRoutesAsRegexes(publicRoutes)
	protectedRoutesRegEx := compileRoutesAsRegexes(protectedRoutes)

	skipper := func(c echo.Context) bool {
		path := strings.ToLower(c.Request().URL.Path)

		if matchesAnyRoute(publicRoutesRegEx, path) {
			return true
		}

		return !matchesAnyRoute(protectedRoutesRegEx, path)
	}

	// only the node operator may access protected routes, voter tokens carry the identity as subject
	allow := func(_ echo.Context, claims *jwt.AuthClaims) bool {
		return claims.VerifySubject(nodeID)
	}

	return jwtAuth.Middleware(skipper, allow)
}

// requestCounterMiddleware counts all requests.
func requestCounterMiddleware(restAPIMetrics *metrics.RestAPIMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			restAPIMetrics.HTTPRequestCounter.Inc()
			return next(c)
		}
	}
}
