// Package metrics defines and registers all custom Prometheus metrics for
// the workshop portal. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// AccessDecisionsTotal counts route-gating outcomes.
// Label:
//   - decision: "allow", "require_login" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of route access decisions, by outcome.",
	},
	[]string{"decision"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// OtpActionsTotal counts verification-flow actions.
// Labels:
//   - kind: "reset" or "verify_email"
//   - action: "begin", "submit_code", "resend" or "submit_secret"
//   - result: "ok", "rejected", "throttled" or "error"
var OtpActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_actions_total",
		Help:      "Total number of verification flow actions, by kind, action and result.",
	},
	[]string{"kind", "action", "result"},
)

// BackendRequestDuration measures round trips to the remote verification
// backend.
// Labels:
//   - op: backend operation name (e.g. "login", "request_code")
//   - result: "ok" or "error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the verification backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op", "result"},
)
