package signaling

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_app_ws_connections",
			Help: "Current number of active signaling connections.",
		},
	)
	deliveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_app_ws_messages_delivered_total",
			Help: "Total payloads handed to a live connection.",
		},
	)
	droppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_app_ws_messages_dropped_total",
			Help: "Total payloads dropped because the target was offline or saturated.",
		},
	)
	storeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_app_store_errors_total",
			Help: "Total membership store failures observed by the gateway.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, deliveredTotal, droppedTotal, storeErrorsTotal)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}
