// Package metrics defines all custom Prometheus metrics for the project request
// service. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "projects"

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// TransitionsTotal counts lifecycle operations by outcome.
// Labels:
//   - transition: operation name (e.g. "approve", "pause")
//   - result: "ok" or the failing error kind (e.g. "invalid state", "forbidden")
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of project lifecycle operations, by transition and result.",
	},
	[]string{"transition", "result"},
)

// TransitionDuration measures read, guard, and persist time of a single operation.
var TransitionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transition_duration_seconds",
		Help:      "Duration of a project operation from read to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"transition"},
)

// PolicyDenialsTotal counts authorization denials.
// Label:
//   - policy: "approver", "approver_manager", "team_admin", or a permission action name
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of authorization denials, by policy.",
	},
	[]string{"policy"},
)

// ProjectsCreatedTotal counts newly created projects.
// Label:
//   - type: project type (e.g. "process_automation")
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of projects created, by type.",
	},
	[]string{"type"},
)

// IdempotencyTotal counts idempotency key decisions.
// Label:
//   - result: "hit" (replayed), "miss" (new request), "error" (store unavailable)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Total number of idempotency key checks, labelled by result.",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events delivered to the publisher.
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by event type.",
	},
	[]string{"type"},
)

// EventsErrorsTotal counts domain events the publisher failed to deliver.
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of domain events that failed to publish, by event type.",
	},
	[]string{"type"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
