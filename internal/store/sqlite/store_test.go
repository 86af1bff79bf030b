package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"chartarcade/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "arcade.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStatsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := game.SessionStats{
		TotalTurns:    42,
		TotalTrades:   7,
		Wins:          20,
		Losses:        15,
		Flats:         7,
		CurrentStreak: 3,
		BestStreak:    6,
		WorstStreak:   -4,
		ChartsViewed:  5,
		LatenciesMS:   []int64{120, 450, 900},
	}
	if err := s.SaveStats(DefaultPlayer, in); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadStats(DefaultPlayer)
	if err != nil {
		t.Fatal(err)
	}
	if out.TotalTurns != 42 || out.Wins != 20 || out.WorstStreak != -4 || out.ChartsViewed != 5 {
		t.Errorf("loaded stats = %+v", out)
	}
	if len(out.LatenciesMS) != 3 || out.LatenciesMS[1] != 450 {
		t.Errorf("latencies = %v", out.LatenciesMS)
	}
}

func TestStatsUpsert(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveStats(DefaultPlayer, game.SessionStats{Wins: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveStats(DefaultPlayer, game.SessionStats{Wins: 9}); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadStats(DefaultPlayer)
	if err != nil {
		t.Fatal(err)
	}
	if out.Wins != 9 {
		t.Errorf("wins = %d, want latest save to win", out.Wins)
	}
}

func TestLoadStatsMissingPlayer(t *testing.T) {
	s := openTestStore(t)
	out, err := s.LoadStats("ghost")
	if err != nil {
		t.Fatalf("missing row should not error: %v", err)
	}
	if out.TotalTurns != 0 || out.Wins != 0 || out.ChartsViewed != 0 || len(out.LatenciesMS) != 0 {
		t.Errorf("fresh player stats = %+v, want zero value", out)
	}
}

func TestResetStats(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveStats(DefaultPlayer, game.SessionStats{Wins: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.ResetStats(DefaultPlayer); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadStats(DefaultPlayer)
	if err != nil {
		t.Fatal(err)
	}
	if out.Wins != 0 {
		t.Errorf("stats survived reset: %+v", out)
	}
}

func TestAppendTradesIdempotent(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()

	trades := []game.Trade{
		{ID: "t1", Ticker: "AAPL", Type: game.ActionBuy, BarIndex: 60, Price: 100, Shares: 50, At: now},
		{ID: "t2", Ticker: "AAPL", Type: game.ActionSell, BarIndex: 63, Price: 105, Shares: 50, At: now},
	}

	if err := s.AppendTrades("sess-1", trades); err != nil {
		t.Fatal(err)
	}
	// Re-sending the full log must not duplicate rows
	if err := s.AppendTrades("sess-1", trades); err != nil {
		t.Fatal(err)
	}

	n, err := s.SessionTradeCount("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("journaled trades = %d, want 2", n)
	}

	if err := s.AppendTrades("sess-1", append(trades,
		game.Trade{ID: "t3", Ticker: "MSFT", Type: game.ActionBuy, BarIndex: 80, Price: 300, Shares: 10, At: now},
	)); err != nil {
		t.Fatal(err)
	}
	n, err = s.SessionTradeCount("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("journaled trades after partial re-send = %d, want 3", n)
	}
}

func TestAppendTradesEmpty(t *testing.T) {
	s := openTestStore(t)
	if err := s.AppendTrades("sess-1", nil); err != nil {
		t.Errorf("empty append errored: %v", err)
	}
	n, err := s.SessionTradeCount("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("count = %d", n)
	}
}

func TestSessionTradeCountIsolatedBySession(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()
	if err := s.AppendTrades("a", []game.Trade{{ID: "x", Ticker: "T", Type: game.ActionBuy, BarIndex: 1, Price: 1, Shares: 1, At: now}}); err != nil {
		t.Fatal(err)
	}
	n, err := s.SessionTradeCount("b")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("session b count = %d, want 0", n)
	}
}
