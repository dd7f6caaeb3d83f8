package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"psi-arena/internal/config"
	"psi-arena/internal/logging"
)

// Metrics with bounded cardinality: labels are action kinds and fixed
// reason strings, never player or connection ids.
var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_sessions_active",
		Help: "Currently connected player sessions",
	})

	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_actions_total",
		Help: "Inbound actions received, by kind",
	}, []string{"kind"})

	suspicionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_suspicions_total",
		Help: "Plausibility flags raised by the validator",
	}, []string{"reason"}) // bounded: "malformed", "speed", "divergence", "teleport"

	connectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_connections_rejected_total",
		Help: "Connections rejected before reaching the engine",
	}, []string{"reason"}) // bounded: "rate_limit", "origin", "ip_limit", "full"
)

// RecordAction counts one inbound action.
func RecordAction(kind string) {
	actionsTotal.WithLabelValues(kind).Inc()
}

// RecordSuspicion counts one validator flag.
func RecordSuspicion(reason string) {
	suspicionsTotal.WithLabelValues(reason).Inc()
}

// RecordConnectionRejected counts a rejected connection attempt.
func RecordConnectionRejected(reason string) {
	connectionsRejected.WithLabelValues(reason).Inc()
}

// UpdateSessions sets the active-session gauge.
func UpdateSessions(count int) {
	sessionsActive.Set(float64(count))
}

// StartDebugServer starts the localhost-only observability server with
// pprof and prometheus endpoints. It must never bind a public interface;
// the config default enforces loopback.
func StartDebugServer(cfg config.ObservabilityConfig) {
	if !cfg.Enabled {
		logging.L.Info("debug server disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logging.L.Infow("debug server listening", "addr", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			logging.L.Warnw("debug server stopped", "err", err)
		}
	}()
}
