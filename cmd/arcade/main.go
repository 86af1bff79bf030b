// cmd/arcade runs the game server: it loads the stock data directory,
// restores persisted session stats, and serves the game over WebSocket
// with Prometheus metrics on a separate port.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chartarcade/config"
	"chartarcade/internal/data"
	"chartarcade/internal/game"
	"chartarcade/internal/gateway"
	"chartarcade/internal/logger"
	"chartarcade/internal/metrics"
	"chartarcade/internal/store/redis"
	"chartarcade/internal/store/sqlite"
)

func main() {
	log := logger.Init("arcade", slog.LevelInfo)
	cfg := config.Load()

	gameCfg := game.Config{
		InitialCash:  cfg.InitialCash,
		Epsilon:      cfg.Epsilon,
		ShareEpsilon: cfg.ShareEpsilon,
		LookbackMin:  cfg.LookbackMin,
		ForwardMin:   cfg.ForwardMin,
	}

	feed, err := data.Open(cfg.DataDir, cfg.MinBars())
	if err != nil {
		log.Error("data load failed", "error", err)
		os.Exit(1)
	}
	log.Info("stock data loaded", "dir", cfg.DataDir, "stocks", len(feed.Metas()))

	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		// Persistence is an enhancement, not a requirement: play on
		// with fresh stats each session.
		log.Warn("sqlite unavailable, stats will not persist", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board := redis.New(cfg.RedisAddr, cfg.RedisPass)
	if board.Enabled() {
		if err := board.Ping(ctx); err != nil {
			log.Warn("redis unreachable, leaderboard degraded", "error", err)
		}
		defer board.Close()
	}

	m := metrics.New()
	msrv := metrics.NewServer(cfg.MetricsAddr)
	msrv.Start()

	gw := gateway.New(feed, store, board, m, gameCfg, log)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: gw.Routes(ctx),
	}

	go func() {
		log.Info("arcade server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	// Cancel first so active websocket sessions close; Shutdown only
	// waits on non-hijacked connections.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	msrv.Stop(shutdownCtx)
}
