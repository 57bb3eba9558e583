// Package metrics defines and registers the custom Prometheus metrics for the
// exercise tracker API. HTTP request metrics come from echoprometheus; this
// package only holds the domain-level collectors.
//
// All collectors are registered with the default registry at init time via
// promauto, so /metrics exposes them without further setup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exercise_tracker"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users persisted by POST /api/users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// UserCacheTotal counts user lookups against the cache.
// Label:
//   - result: "hit", "miss" or "error"
var UserCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_total",
		Help:      "Total number of user cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)

// ── Exercise metrics ──────────────────────────────────────────────────────────

// ExercisesLoggedTotal counts exercises persisted by POST /api/users/:id/exercises.
var ExercisesLoggedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exercises_logged_total",
		Help:      "Total number of exercises logged.",
	},
)

// LogQueriesTotal counts log queries.
// Label:
//   - filtered: "true" when a from/to range was supplied
var LogQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_queries_total",
		Help:      "Total number of exercise log queries.",
	},
	[]string{"filtered"},
)

// LogEntriesReturned observes how many entries each log query returns.
var LogEntriesReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "log_entries_returned",
		Help:      "Number of log entries returned per query.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)
