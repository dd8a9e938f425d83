// Package metrics defines and registers all custom Prometheus metrics for
// the clinic console. It is the single source of truth for metric names,
// labels, and help strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic_console"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected" (bad credentials), or "error" (backend failure)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of console login attempts, by result.",
	},
	[]string{"result"},
)

// SessionExpiriesTotal counts sessions destroyed because the backend stopped
// accepting their token (401 mid-session or failed identity re-check).
var SessionExpiriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expiries_total",
		Help:      "Total number of sessions destroyed after backend token rejection.",
	},
)

// ModuleDenialsTotal counts authenticated requests redirected away from a
// module the user's role may not access.
// Label:
//   - module: the gated module name (e.g. "finance")
var ModuleDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "module_denials_total",
		Help:      "Total number of module access denials, by module.",
	},
	[]string{"module"},
)

// BackendRequestDuration measures round-trip time of relayed backend calls.
// Labels:
//   - resource: the console resource group (e.g. "patients", "finance")
//   - outcome:  "ok" or "error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of relayed requests to the clinic backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "outcome"},
)
