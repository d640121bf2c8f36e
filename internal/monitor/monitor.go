package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics gathers the counters the game core exposes. A fresh registry is
// injected so test suites can build isolated instances.
type Metrics struct {
	RoomsCreated      prometheus.Counter
	MovesCommitted    prometheus.Counter
	WinsDetected      prometheus.Counter
	OpenSubscriptions prometheus.Gauge
	ConnectedClients  prometheus.Gauge
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Total number of rooms created",
		}),
		MovesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_committed_total",
			Help:      "Total number of accepted move transitions",
		}),
		WinsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_detected_total",
			Help:      "Total number of games finished with a winner",
		}),
		OpenSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_subscriptions",
			Help:      "Number of live room subscriptions",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of connected websocket clients",
		}),
	}

	reg.MustRegister(
		m.RoomsCreated,
		m.MovesCommitted,
		m.WinsDetected,
		m.OpenSubscriptions,
		m.ConnectedClients,
	)

	return m
}
