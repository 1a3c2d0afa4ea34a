package restapi

import (
	"sort"
	"sync"

	"github.com/labstack/echo/v4"
)

// RestRouteManager keeps track of the route groups registered by plugins.
type RestRouteManager struct {
	sync.RWMutex
	echo   *echo.Echo
	routes []string
}

func newRestRouteManager(e *echo.Echo) *RestRouteManager {
	return &RestRouteManager{
		echo:   e,
		routes: []string{},
	}
}

// Routes returns the registered routes in ascending order.
func (p *RestRouteManager) Routes() []string {
	p.RLock()
	defer p.RUnlock()

	routes := make([]string, len(p.routes))
	copy(routes, p.routes)
	sort.Strings(routes)

	return routes
}

// AddRoute adds a route to the RoutesResponse and returns the echo group for it.
func (p *RestRouteManager) AddRoute(route string) *echo.Group {
	p.Lock()
	defer p.Unlock()

	found := false
	for _, r := range p.routes {
		if r == route {
			found = true
			break
		}
	}
	if !found {
		p.routes = append(p.routes, route)
	}

	return p.echo.Group("/api/" + route)
}
