// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GuardChecks counts session checks by outcome: authenticated,
	// anonymous (no redirect) or redirect.
	GuardChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recipebox",
		Name:      "session_checks_total",
		Help:      "Session guard checks by outcome",
	}, []string{"outcome"})

	RecipeReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recipebox",
		Name:      "recipe_reads_total",
		Help:      "Recipe list reads by result",
	}, []string{"result"})

	RecipeWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recipebox",
		Name:      "recipe_writes_total",
		Help:      "Recipe create attempts by result",
	}, []string{"result"})

	// OwnershipViolations counts rows dropped because they belonged to
	// another user.
	OwnershipViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recipebox",
		Name:      "ownership_violations_total",
		Help:      "Rows discarded for not matching the session owner",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recipebox",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code",
	}, []string{"route", "method", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recipebox",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

const (
	OutcomeAuthenticated = "authenticated"
	OutcomeAnonymous     = "anonymous"
	OutcomeRedirect      = "redirect"

	ResultOK           = "ok"
	ResultError        = "error"
	ResultInvalid      = "invalid"
	ResultUnauthorized = "unauthorized"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
