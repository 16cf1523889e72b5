// Package metrics exposes Prometheus collectors for roast requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives roast and HTTP measurements.
type Recorder interface {
	IncRoasts(outcome string)
	IncFallbackRoasts()
	IncRequests(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
}

// Metrics records to a dedicated Prometheus registry.
type Metrics struct {
	registry        *prometheus.Registry
	roastsTotal     *prometheus.CounterVec
	fallbackTotal   prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, along with Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		roastsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roaster_roasts_total",
			Help: "Total number of roast requests by outcome",
		}, []string{"outcome"}),

		fallbackTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "roaster_fallback_roasts_total",
			Help: "Total number of roasts served from local templates",
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roaster_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roaster_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// IncRoasts counts a finished roast request by outcome label.
func (m *Metrics) IncRoasts(outcome string) {
	m.roastsTotal.WithLabelValues(outcome).Inc()
}

// IncFallbackRoasts counts a roast served from a fallback template.
func (m *Metrics) IncFallbackRoasts() {
	m.fallbackTotal.Inc()
}

// IncRequests counts an HTTP request by route pattern and status code.
func (m *Metrics) IncRequests(route string, status int) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObserveRequestDuration records HTTP request latency by route pattern.
func (m *Metrics) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Noop discards all measurements.
type Noop struct{}

func (Noop) IncRoasts(string)                             {}
func (Noop) IncFallbackRoasts()                           {}
func (Noop) IncRequests(string, int)                      {}
func (Noop) ObserveRequestDuration(string, time.Duration) {}
