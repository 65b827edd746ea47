// Package metrics defines and registers all custom Prometheus metrics for the
// newsfeed API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsfeed"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts signup attempts.
// Label:
//   - result: "success", "invalid", "conflict" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "not_found", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts Authorization Gate decisions.
// Label:
//   - result: "valid", "invalid" or "missing"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token checks, by result.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures bcrypt work, including time queued in the pool.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hash and verify operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// ── Preference / news metrics ─────────────────────────────────────────────────

// PreferenceUpdatesTotal counts preference updates.
// Label:
//   - result: "success", "invalid", "not_found" or "error"
var PreferenceUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "preference_updates_total",
		Help:      "Total number of preference updates, by result.",
	},
	[]string{"result"},
)

// NewsCacheTotal counts news cache lookups.
// Label:
//   - result: "hit" or "miss"
var NewsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "news_cache_total",
		Help:      "Total number of news cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
