// Package metrics holds the Prometheus collectors for the ads gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests      *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
	registry      *prometheus.Registry
}

// New registers a fresh set of collectors on their own registry so tests
// and multiple servers do not collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ads",
			Name:      "backend_requests_total",
			Help:      "Calls made to the ads backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ads",
			Name:      "cache_lookups_total",
			Help:      "Listing cache lookups by result.",
		}, []string{"result"}),
		Invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ads",
			Name:      "cache_invalidations_total",
			Help:      "Tag invalidations triggered by mutations.",
		}, []string{"tag"}),
		registry: reg,
	}
	reg.MustRegister(
		m.Requests,
		m.CacheLookups,
		m.Invalidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
