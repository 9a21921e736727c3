// Package metrics defines the Prometheus metrics of the admin console: the
// API client's request and session counters, and the mock API's business
// counters. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "siren_admin"

// ── Client metrics ────────────────────────────────────────────────────────────

// APIRequestsTotal counts admin API calls.
// Labels:
//   - method: HTTP method
//   - status: response status code, or "error" when no response arrived
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of admin API requests, by method and status.",
	},
	[]string{"method", "status"},
)

// APIRequestDuration measures admin API round trips.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of admin API round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionInvalidationsTotal counts sessions cleared after a 401.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated by an authorization failure.",
	},
)

// ── Mock API metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts authentication attempts on the mock API.
// Labels:
//   - method: "password" or "otp"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mockapi",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// PermissionDenialsTotal counts requests rejected by the permission check.
// Label:
//   - permission: the permission slug that was missing
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mockapi",
		Name:      "permission_denials_total",
		Help:      "Total number of requests denied for a missing permission.",
	},
	[]string{"permission"},
)
