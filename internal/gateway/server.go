// Package gateway serves the game over WebSocket plus a small REST
// surface for metadata, stats, and the leaderboard. Each WebSocket
// connection owns an independent engine instance.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chartarcade/internal/data"
	"chartarcade/internal/game"
	"chartarcade/internal/indicator"
	"chartarcade/internal/metrics"
	"chartarcade/internal/store/redis"
	"chartarcade/internal/store/sqlite"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// setCORS sets CORS headers for REST endpoints.
func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Server wires the feed, stores, and metrics into HTTP handlers.
type Server struct {
	feed    *data.Feed
	store   *sqlite.Store
	board   *redis.Leaderboard
	metrics *metrics.Metrics
	gameCfg game.Config
	player  string
	log     *slog.Logger
	now     func() time.Time
}

// New creates a gateway server. store may be nil (no persistence);
// board is never nil but may be disabled.
func New(feed *data.Feed, store *sqlite.Store, board *redis.Leaderboard,
	m *metrics.Metrics, gameCfg game.Config, log *slog.Logger) *Server {
	return &Server{
		feed:    feed,
		store:   store,
		board:   board,
		metrics: m,
		gameCfg: gameCfg,
		player:  sqlite.DefaultPlayer,
		log:     log,
		now:     time.Now,
	}
}

// Routes registers all HTTP routes on a fresh mux.
func (s *Server) Routes(ctx context.Context) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})

	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Stock index: ticker/name/sector/date range. The anonymization
	// happens per-chart at play time, not here: the index itself is
	// not secret.
	mux.HandleFunc("/api/v1/stocks", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.feed.Metas())
	})

	mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		stats := game.SessionStats{}
		if s.store != nil {
			if loaded, err := s.store.LoadStats(s.player); err == nil {
				stats = loaded
			}
		}
		json.NewEncoder(w).Encode(stats)
	})

	mux.HandleFunc("/api/v1/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		n := 10
		if q := r.URL.Query().Get("n"); q != "" {
			if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 && parsed <= 100 {
				n = parsed
			}
		}
		entries, err := s.board.Top(r.Context(), n)
		if err != nil {
			http.Error(w, `{"error":"leaderboard unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		if entries == nil {
			entries = []redis.Entry{}
		}
		json.NewEncoder(w).Encode(entries)
	})

	return mux
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	stats := game.SessionStats{}
	if s.store != nil {
		if loaded, err := s.store.LoadStats(s.player); err != nil {
			s.log.Error("stats load failed", "error", err)
		} else {
			stats = loaded
		}
	}

	id := uuid.NewString()
	sess := &session{
		id:       id,
		srv:      s,
		conn:     conn,
		game:     game.New(s.gameCfg, stats),
		overlays: indicator.DefaultSet(),
		rng:      rand.New(rand.NewSource(s.now().UnixNano())),
		log:      s.log.With(slog.String("session_id", id)),
	}

	s.metrics.SessionsTotal.Inc()
	s.metrics.ActiveSessions.Inc()
	defer s.metrics.ActiveSessions.Dec()

	sess.run(ctx)
}
