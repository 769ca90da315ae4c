// Package metrics defines and registers all custom Prometheus metrics for the
// JobPilot API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobpilot"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts created accounts.
// Label:
//   - method: "password" or the federated provider name (e.g. "google")
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created, by sign-up method.",
	},
	[]string{"method"},
)

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "invalid_credentials", "invalid_token", "user_gone", "missing_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication attempts.",
	},
	[]string{"reason"},
)

// ImpersonationsTotal counts tokens minted by admins for other users.
var ImpersonationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impersonations_total",
		Help:      "Total number of impersonation tokens issued.",
	},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts new job applications.
// Label:
//   - status: initial pipeline status
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of job applications created, by initial status.",
	},
	[]string{"status"},
)

// JobStatusChangesTotal counts pipeline moves.
// Label:
//   - status: the new status
var JobStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_status_changes_total",
		Help:      "Total number of job application status changes, by new status.",
	},
	[]string{"status"},
)

// ── System log metrics ────────────────────────────────────────────────────────

// SystemLogQueueDepth tracks entries waiting for a writer.
var SystemLogQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_log_queue_depth",
		Help:      "Current number of system log entries pending persistence.",
	},
)

// SystemLogDroppedTotal counts entries discarded because the queue was full.
var SystemLogDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "system_log_dropped_total",
		Help:      "Total number of system log entries dropped because the queue was full.",
	},
)

// SystemLogWriteErrorsTotal counts entries that could not be persisted.
var SystemLogWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "system_log_write_errors_total",
		Help:      "Total number of system log entries that failed to persist.",
	},
)
