// Package metrics defines and registers all custom Prometheus metrics for the
// sublet marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sublet"

// ── Listing metrics ───────────────────────────────────────────────────────────

// ListingQueriesTotal counts listing searches.
// Label:
//   - scope: "mine" or "public"
var ListingQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_queries_total",
		Help:      "Total number of listing searches, by scope.",
	},
	[]string{"scope"},
)

// ListingQueryResults observes how many listings a search returned.
var ListingQueryResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listing_query_results",
		Help:      "Number of listings returned per search.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
)

// ListingsCreatedTotal counts newly created listings.
// Label:
//   - state: "published" or "draft"
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by initial state.",
	},
	[]string{"state"},
)

// ── Messaging metrics ─────────────────────────────────────────────────────────

// MessagesSentTotal counts stored direct messages.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of direct messages sent.",
	},
)

// RealtimeConnections tracks open websocket connections.
var RealtimeConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connections",
		Help:      "Current number of open message stream connections.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts email delivery attempts.
// Labels:
//   - kind: notification kind (e.g. "verify_email", "new_message")
//   - result: "sent", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of email notifications, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotificationsQueueDepth tracks the number of notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures how long a single email takes to deliver.
// Label:
//   - kind: notification kind
var NotificationDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of email delivery from dequeue to mail server acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Moderation metrics ────────────────────────────────────────────────────────

// ReportsTotal counts moderation actions.
// Label:
//   - action: "created", "resolved" or "dismissed"
var ReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Total number of listing reports, by moderation action.",
	},
	[]string{"action"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts sign-up and sign-in attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and result.",
	},
	[]string{"op", "result"},
)
