// Package metrics exposes Prometheus collectors for validation checks and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the stratum metrics on one registry.
type Collector struct {
	registry *prometheus.Registry

	valueChecks *prometheus.CounterVec
	nameChecks  *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: reg,
		valueChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratum_value_checks_total",
				Help: "Total number of value validations by type tag and outcome",
			},
			[]string{"tag", "outcome"},
		),
		nameChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratum_name_checks_total",
				Help: "Total number of name validations by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratum_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stratum_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(c.valueChecks, c.nameChecks, c.requests, c.duration)
	return c
}

// Registry returns the registry the collectors live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ValueChecks exposes the value check counter.
func (c *Collector) ValueChecks() *prometheus.CounterVec {
	return c.valueChecks
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hooks returns validator hooks that count every check.
func (c *Collector) Hooks() stratum.Hooks {
	return stratum.Hooks{
		OnValue: func(e stratum.ValueEvent) {
			c.valueChecks.WithLabelValues(tagLabel(e.Tag), outcome(e.Result.OK())).Inc()
		},
		OnName: func(e stratum.NameEvent) {
			c.nameChecks.WithLabelValues(string(e.Kind), outcome(e.Result.OK())).Inc()
		},
	}
}

// ObserveRequest records one served request. route must be a route pattern,
// not a raw path; pass UnmatchedRoute for requests no route handled.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	method = methodLabel(method)
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Label values that stand in for caller-controlled input.
const (
	UnknownTag     = "unknown"
	UnmatchedRoute = "unmatched"
	OtherMethod    = "OTHER"
)

// tagLabel keeps the tag label within the closed registry.
func tagLabel(tag schema.Tag) string {
	if !tag.Known() {
		return UnknownTag
	}
	return tag.String()
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return OtherMethod
}

func outcome(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}
