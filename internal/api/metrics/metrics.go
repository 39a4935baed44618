// Package metrics defines the custom Prometheus metrics of the account
// service. Metrics are registered with the default registry on import via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Account lifecycle ─────────────────────────────────────────────────────────

// SignupsTotal counts registration attempts.
// Label:
//   - result: "created", "invalid", "duplicate" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// SigninsTotal counts sign-in attempts.
// Label:
//   - result: "ok", "invalid", "not_found", "bad_password" or "error"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// AccountsDeletedTotal counts successful soft deletes.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of accounts soft-deleted.",
	},
)

// ── Auth gate ─────────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests turned away by the auth gate.
// Label:
//   - reason: "missing_token", "invalid_token", "expired_token", "missing_subject", "account_not_found"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of protected requests rejected by the auth gate, by reason.",
	},
	[]string{"reason"},
)

// AccountCacheLookupsTotal counts account cache lookups made while resolving identities.
// Label:
//   - result: "hit", "miss" or "error"
var AccountCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_cache_lookups_total",
		Help:      "Total number of account cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Password hashing ─────────────────────────────────────────────────────────

// PasswordHashDuration measures bcrypt work, including time spent queued.
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

// HashQueueDepth tracks jobs waiting for a hash worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)
