package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/tally/core/app"
)

var (
	appInfo *prometheus.GaugeVec
)

func configureNode(info *app.AppInfo) {
	appInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "node",
			Name:      "app_info",
			Help:      "Node software name and version.",
		},
		[]string{"name", "version"},
	)

	appInfo.WithLabelValues(info.Name, info.Version).Set(1)

	registry.MustRegister(appInfo)
}
