// Package metrics defines and registers all custom Prometheus metrics for the
// purificadora client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry on package
// initialisation; the gateway exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "purificadora"

// ── Backend client metrics ────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the remote REST backend.
// Labels:
//   - endpoint: logical endpoint name (e.g. "login", "pedidos.create")
//   - status: HTTP status code, or "error" when the request never completed
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Total number of requests sent to the backend API.",
	},
	[]string{"endpoint", "status"},
)

// BackendRequestDuration measures backend round trips, body read included.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Duration of backend API round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// BaseURLResolutionsTotal counts base-URL resolutions.
// Label:
//   - source: "tunnel" (discovery succeeded) or "fallback" (default URL used)
var BaseURLResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "base_url_resolutions_total",
		Help:      "Total number of base URL resolutions, by source.",
	},
	[]string{"source"},
)

// SessionExpirationsTotal counts forced logouts.
// Label:
//   - reason: "unauthorized", "login_redirect", "token_expired" or "missing_token"
var SessionExpirationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "expirations_total",
		Help:      "Total number of times local credentials were cleared.",
	},
	[]string{"reason"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts orders accepted by the backend.
// Label:
//   - product: product name as reported by the catalog
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed, by product.",
	},
	[]string{"product"},
)

// OfflineCatalogTotal counts product listings served from the sample catalog.
var OfflineCatalogTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offline_catalog_total",
		Help:      "Total number of product listings served from the built-in sample catalog.",
	},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts requests handled by the local gateway.
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled by the gateway.",
	},
	[]string{"method", "route", "status"},
)

// GatewayRequestDuration measures gateway request handling time.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Duration of gateway request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Dev server metrics ────────────────────────────────────────────────────────

// DevServerOrdersTotal counts order mutations served by the dev server.
// Label:
//   - action: "created", "replayed", "updated" or "deleted"
var DevServerOrdersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "devserver",
		Name:      "orders_total",
		Help:      "Total number of order mutations handled by the dev server.",
	},
	[]string{"action"},
)
