package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gohornet/tally/pkg/model/storage"
	"github.com/gohornet/tally/pkg/restapi"
)

const (
	nodeAPIHealthRoute = "/health"

	nodeAPIRoutesRoute = "/api/routes"
)

type RoutesResponse struct {
	Routes []string `json:"routes"`
}

func setupRoutes(e *echo.Echo, store *storage.Storage, routeManager *RestRouteManager) {

	e.GET(nodeAPIHealthRoute, func(c echo.Context) error {
		// the database is marked as corrupted while the node is running, only a tainted database is unhealthy
		tainted, err := store.HealthTracker().IsTainted()
		if err != nil || tainted {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	})

	e.GET(nodeAPIRoutesRoute, func(c echo.Context) error {
		resp := &RoutesResponse{
			Routes: routeManager.Routes(),
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}
