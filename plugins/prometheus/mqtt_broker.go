package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/tally/pkg/mqtt"
)

var (
	mqttBrokerTopicsManagerSize prometheus.Gauge
)

func configureMQTTBroker(broker *mqtt.Broker) {
	mqttBrokerTopicsManagerSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tally",
			Subsystem: "mqtt_broker",
			Name:      "topics_manager_size",
			Help:      "Number of active topics in the topics manager.",
		})

	registry.MustRegister(mqttBrokerTopicsManagerSize)

	addCollect(func() {
		mqttBrokerTopicsManagerSize.Set(float64(broker.TopicsCount()))
	})
}
