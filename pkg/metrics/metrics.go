package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// Metrics counts routing decisions per delivery service
type Metrics struct {
	Results  *prometheus.CounterVec
	registry *prometheus.Registry
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		Results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dspolicy",
				Name:      "results_total",
				Help:      "Routing decisions by delivery service, operation, result and result details",
			},
			[]string{"delivery_service", "operation", "result", "details"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.Results)

	return m
}

// Track implements track.Sink
func (m *Metrics) Track(event domain.TrackEvent) {
	m.Results.WithLabelValues(
		event.DeliveryService,
		event.Operation,
		string(event.Result),
		string(event.ResultDetails),
	).Inc()
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the collected metrics in the textfile collector format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
