// Package metrics expone contadores de autenticacion y latencia HTTP para Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MethodPassword = "password"
	MethodGoogle   = "google"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Recorder es lo que usan los handlers. Nop sirve cuando no hay registro.
type Recorder interface {
	RecordLogin(method, outcome string)
	RecordRegistration(outcome string)
	RecordTokenVerification(outcome string)
	RecordForbidden()
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Collector implementa Recorder sobre un registro de Prometheus.
type Collector struct {
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	verifications *prometheus.CounterVec
	forbidden     prometheus.Counter
	requests      *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskmgr_auth_logins_total",
			Help: "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskmgr_auth_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskmgr_auth_token_verifications_total",
			Help: "Bearer token verifications by outcome.",
		}, []string{"outcome"}),
		forbidden: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskmgr_auth_forbidden_total",
			Help: "Requests rejected by the role check.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskmgr_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.logins,
		c.registrations,
		c.verifications,
		c.forbidden,
		c.requests,
	)
	return c
}

func (c *Collector) RecordLogin(method, outcome string) {
	c.logins.WithLabelValues(method, outcome).Inc()
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordTokenVerification(outcome string) {
	c.verifications.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordForbidden() {
	c.forbidden.Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, statusClass(status)).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Nop descarta todas las mediciones.
type Nop struct{}

func (Nop) RecordLogin(string, string) {}
func (Nop) RecordRegistration(string) {}
func (Nop) RecordTokenVerification(string) {}
func (Nop) RecordForbidden() {}
func (Nop) ObserveRequest(string, string, int, time.Duration) {}

// Handler devuelve el endpoint de scrape para el gatherer dado.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
