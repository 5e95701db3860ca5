package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/gymlog/internal/tracker"
)

// Metrics holds the Prometheus collectors. It doubles as the tracker's
// Observer so session lifecycle events are counted where they happen.
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	PersistFailures   prometheus.Counter
	Requests          *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

var _ tracker.Observer = (*Metrics)(nil)

// NewMetrics registers the collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gymlog",
			Name:      "sessions_started_total",
			Help:      "The total number of started workout sessions",
		}),
		SessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gymlog",
			Name:      "sessions_completed_total",
			Help:      "The total number of completed workout sessions",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gymlog",
			Name:      "persist_failures_total",
			Help:      "The total number of failed state saves",
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymlog",
			Name:      "http_requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		gatherer: reg,
	}
}

func (m *Metrics) SessionStarted()   { m.SessionsStarted.Inc() }
func (m *Metrics) SessionCompleted() { m.SessionsCompleted.Inc() }
func (m *Metrics) PersistFailed()    { m.PersistFailures.Inc() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
