// Package metrics exposes Prometheus metrics and a health endpoint for
// the arcade server.
package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the game server.
type Metrics struct {
	TurnsTotal    *prometheus.CounterVec // labels: action
	TradesTotal   *prometheus.CounterVec // labels: type
	VerdictsTotal *prometheus.CounterVec // labels: verdict (win|loss|flat)
	ChartsLoaded  prometheus.Counter
	SessionsTotal prometheus.Counter

	ActiveSessions prometheus.Gauge

	IndicatorComputeDur prometheus.Histogram
	TurnDur             prometheus.Histogram
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_turns_total",
			Help: "Turns completed, by action",
		}, []string{"action"}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_trades_total",
			Help: "Trades executed, by type",
		}, []string{"type"}),
		VerdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_verdicts_total",
			Help: "Turn verdicts, by result",
		}, []string{"verdict"}),
		ChartsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcade_charts_loaded_total",
			Help: "Stock charts served into sessions",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcade_sessions_total",
			Help: "Game sessions started",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arcade_active_sessions",
			Help: "Currently connected game sessions",
		}),
		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arcade_indicator_compute_duration_seconds",
			Help:    "Time to evaluate the overlay set against the visible prefix",
			Buckets: prometheus.DefBuckets,
		}),
		TurnDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arcade_turn_duration_seconds",
			Help:    "Engine time per turn operation",
			Buckets: prometheus.DefBuckets,
		}),
	}

	prometheus.MustRegister(
		m.TurnsTotal,
		m.TradesTotal,
		m.VerdictsTotal,
		m.ChartsLoaded,
		m.SessionsTotal,
		m.ActiveSessions,
		m.IndicatorComputeDur,
		m.TurnDur,
	)

	return m
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
