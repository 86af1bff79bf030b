package gateway

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/gorilla/websocket"

	"chartarcade/internal/data"
	"chartarcade/internal/game"
	"chartarcade/internal/indicator"
	"chartarcade/internal/logger"
	"chartarcade/internal/resample"
)

// session is one connected player: a dedicated engine, overlay set, and
// RNG, driven by a single synchronous read-handle-respond loop. The
// turn-based protocol means there is never more than one in-flight
// operation per session, so no locks are needed on game state.
type session struct {
	id       string
	srv      *Server
	conn     *websocket.Conn
	game     *game.Game
	overlays *indicator.Set
	rng      *rand.Rand
	log      *slog.Logger
}

// run drives the session until the connection drops, then persists
// stats, journals trades, and updates the leaderboard.
func (s *session) run(ctx context.Context) {
	ctx = logger.WithSessionID(ctx, s.id)
	s.log.Info("session started", logger.WithSession(ctx)...)

	defer func() {
		s.persist(ctx, true)
		s.log.Info("session ended", logger.WithSession(ctx)...)
	}()

	// Hijacked connections are outside http.Server.Shutdown, so server
	// shutdown reaches the read loop by closing the socket.
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	for {
		var req Request
		if err := s.conn.ReadJSON(&req); err != nil {
			return
		}
		if !s.handle(ctx, req) {
			return
		}
	}
}

// handle processes one request. Returns false when the session should
// close.
func (s *session) handle(ctx context.Context, req Request) bool {
	switch req.Op {
	case "load":
		if err := s.loadNext(""); err != nil {
			s.log.Error("load failed", "error", err)
			return s.send(errorMsg("no chart available"))
		}
		s.srv.metrics.ChartsLoaded.Inc()
		return s.send(s.stateMsg())

	case "skip":
		return s.turn(req.Op, s.game.Skip)

	case "buy":
		return s.turn(req.Op, func() bool { return s.game.Buy(req.Pct) })

	case "sell":
		return s.turn(req.Op, func() bool { return s.game.Sell(req.Pct) })

	case "switch":
		outgoing, ok := s.game.Switch()
		if !ok {
			return s.send(errorMsg("no chart loaded"))
		}
		s.persist(ctx, false)
		reveal := s.revealFor(outgoing)
		if err := s.loadNext(outgoing); err != nil {
			s.log.Error("switch load failed", "error", err)
			return s.send(errorMsg("no chart available"))
		}
		s.srv.metrics.ChartsLoaded.Inc()
		return s.send(reveal) && s.send(s.stateMsg())

	case "weekly":
		return s.send(WeeklyMsg{Type: "weekly", Bars: resample.Weekly(s.game.VisibleBars())})

	case "overlay_add":
		p, err := req.overlayParams()
		if err != nil {
			return s.send(errorMsg("%v", err))
		}
		s.overlays.Add(p, req.Color)
		return s.send(s.stateMsg())

	case "overlay_remove":
		if !s.overlays.Remove(req.OverlayID) {
			return s.send(errorMsg("no overlay %d", req.OverlayID))
		}
		return s.send(s.stateMsg())

	case "overlay_toggle":
		if !s.overlays.SetEnabled(req.OverlayID, req.Enabled) {
			return s.send(errorMsg("no overlay %d", req.OverlayID))
		}
		return s.send(s.stateMsg())

	case "reset_stats":
		s.resetStats(ctx)
		return s.send(s.stateMsg())

	default:
		return s.send(errorMsg("unknown op %q", req.Op))
	}
}

// turn runs a skip/buy/sell through the engine: rejected operations
// report an error without state change, accepted ones emit the fresh
// snapshot and update metrics from the scored outcome.
func (s *session) turn(op string, fn func() bool) bool {
	start := s.srv.now()
	accepted := fn()
	s.srv.metrics.TurnDur.Observe(s.srv.now().Sub(start).Seconds())

	if !accepted {
		return s.send(errorMsg("%s rejected", op))
	}
	s.srv.metrics.TurnsTotal.WithLabelValues(op).Inc()
	if op != "skip" {
		s.srv.metrics.TradesTotal.WithLabelValues(op).Inc()
	}
	if out := s.game.LastOutcome(); out != nil {
		verdict := "flat"
		switch out.Verdict {
		case game.VerdictWin:
			verdict = "win"
		case game.VerdictLoss:
			verdict = "loss"
		}
		s.srv.metrics.VerdictsTotal.WithLabelValues(verdict).Inc()
	}
	return s.send(s.stateMsg())
}

// loadNext picks a random stock (excluding the outgoing one), validates
// it, and installs it with a fresh start index.
func (s *session) loadNext(exclude string) error {
	meta := s.srv.feed.Pick(s.rng, exclude)
	stock, err := s.srv.feed.Load(meta.Ticker)
	if err != nil {
		return err
	}

	cfg := s.game.Config()
	start, err := data.StartIndex(stock.BarCount(), cfg.LookbackMin, cfg.ForwardMin, s.rng)
	if err != nil {
		return err
	}

	s.game.LoadStock(stock, start)
	return nil
}

func (s *session) revealFor(ticker string) RevealMsg {
	msg := RevealMsg{Type: "reveal", Ticker: ticker}
	for _, m := range s.srv.feed.Metas() {
		if m.Ticker == ticker {
			msg.Name = m.Name
			msg.Sector = m.Sector
			break
		}
	}
	return msg
}

// persist saves stats and journals this session's trades. final also
// pushes the aggregate to the leaderboard.
func (s *session) persist(ctx context.Context, final bool) {
	stats := s.game.Stats()

	if s.srv.store != nil {
		if err := s.srv.store.SaveStats(s.srv.player, stats); err != nil {
			s.log.Error("stats save failed", "error", err)
		}
		if err := s.srv.store.AppendTrades(s.id, s.game.Trades()); err != nil {
			s.log.Error("trade journal failed", "error", err)
		}
	}
	if final && s.srv.board.Enabled() {
		if err := s.srv.board.Record(ctx, s.srv.player, stats); err != nil {
			s.log.Error("leaderboard update failed", "error", err)
		}
	}
}

// resetStats starts the session over: a fresh engine with zero stats,
// restarted on the same instrument (new window) so the post-reset
// snapshot is immediately playable.
func (s *session) resetStats(ctx context.Context) {
	ticker := s.game.Ticker()
	cfg := s.game.Config()
	s.game = game.New(cfg, game.SessionStats{})

	if ticker != "" {
		stock, err := s.srv.feed.Load(ticker)
		if err != nil {
			s.log.Error("reset reload failed", "error", err)
		} else if start, err := data.StartIndex(stock.BarCount(), cfg.LookbackMin, cfg.ForwardMin, s.rng); err != nil {
			s.log.Error("reset reload failed", "error", err)
		} else {
			s.game.LoadStock(stock, start)
		}
	}

	if s.srv.store != nil {
		if err := s.srv.store.ResetStats(s.srv.player); err != nil {
			s.log.Error("stats reset failed", "error", err)
		}
	}
}

func (s *session) send(v any) bool {
	if err := s.conn.WriteJSON(v); err != nil {
		return false
	}
	return true
}
