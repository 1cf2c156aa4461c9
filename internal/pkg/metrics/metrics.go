// Package metrics defines and registers all custom Prometheus metrics for the
// clinic auth core. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic_auth"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "account_inactive", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LastLoginTouchErrorsTotal counts failed asynchronous lastLogin writes.
// Label:
//   - kind: "admin" or "user"
var LastLoginTouchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "last_login_touch_errors_total",
		Help:      "Total number of lastLogin updates that failed.",
	},
	[]string{"kind"},
)

// ── Sessions ─────────────────────────────────────────────────────────────────

// SessionsCreatedTotal counts sessions created at login.
// Label:
//   - kind: principal kind the session refers to
var SessionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created, by principal kind.",
	},
	[]string{"kind"},
)

// SessionRestoresTotal counts restore attempts.
// Label:
//   - result: "ok", "missing", "principal_gone", "malformed", "error"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts, by result.",
	},
	[]string{"result"},
)

// ── Authorization ────────────────────────────────────────────────────────────

// AuthorizationDenialsTotal counts denied protected requests.
// Label:
//   - reason: taxonomy code (e.g. "unauthenticated", "insufficient_role")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of denied authorization checks, by reason.",
	},
	[]string{"reason"},
)

// ── Hashing pool ─────────────────────────────────────────────────────────────

// HashQueueDepth tracks jobs waiting for a hashing worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)

// HashDuration measures time spent inside a worker per operation.
// Label:
//   - op: "hash" or "verify"
var HashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hash_duration_seconds",
		Help:      "Duration of password hash and verify operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"op"},
)
