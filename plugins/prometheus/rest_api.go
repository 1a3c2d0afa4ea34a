package prometheus

import (
	echoprometheus "github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/tally/pkg/metrics"
)

var (
	restapiHTTPRequestCount prometheus.Gauge
	restapiHTTPErrorCount   prometheus.Gauge
)

func configureRestAPI(restAPIMetrics *metrics.RestAPIMetrics, e *echo.Echo) {
	restapiHTTPRequestCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "restapi",
			Name:      "http_requests",
			Help:      "The amount of handled HTTP requests.",
		},
	)

	restapiHTTPErrorCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "restapi",
			Name:      "http_request_errors",
			Help:      "The amount of encountered HTTP request errors.",
		},
	)

	registry.MustRegister(restapiHTTPRequestCount)
	registry.MustRegister(restapiHTTPErrorCount)

	addCollect(func() {
		restapiHTTPRequestCount.Set(float64(restAPIMetrics.HTTPRequestCounter.Load()))
		restapiHTTPErrorCount.Set(float64(restAPIMetrics.HTTPRequestErrorCounter.Load()))
	})

	if e != nil {
		p := echoprometheus.NewPrometheus("tally_restapi", nil)
		for _, m := range p.MetricsList {
			registry.MustRegister(m.MetricCollector)
		}
		e.Use(p.HandlerFunc)
	}
}
