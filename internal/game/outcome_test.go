package game

import (
	"reflect"
	"testing"
)

// ────────────────────────────────────────────────────────────
// Direction thresholding
// ────────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	const eps = 0.0005

	cases := []struct {
		cur, next float64
		want      Direction
	}{
		{100, 100.06, DirectionUp},   // +0.06% > threshold
		{100, 100.04, DirectionFlat}, // +0.04% inside threshold
		{100, 100.00, DirectionFlat},
		{100, 99.96, DirectionFlat}, // -0.04% inside threshold
		{100, 99.90, DirectionDown}, // -0.10%
		{50, 51, DirectionUp},
		{50, 49, DirectionDown},
	}
	for _, tc := range cases {
		if got := Classify(tc.cur, tc.next, eps); got != tc.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", tc.cur, tc.next, got, tc.want)
		}
	}
}

func TestInferPrediction(t *testing.T) {
	const eps = 1e-4

	if got := InferPrediction(nil, eps); got != DirectionDown {
		t.Errorf("flat player prediction = %s, want down", got)
	}
	if got := InferPrediction(&Position{Shares: 5}, eps); got != DirectionUp {
		t.Errorf("long player prediction = %s, want up", got)
	}
	// Dust below the share epsilon counts as flat
	if got := InferPrediction(&Position{Shares: 1e-5}, eps); got != DirectionDown {
		t.Errorf("dust position prediction = %s, want down", got)
	}
}

// ────────────────────────────────────────────────────────────
// Outcome scoring
// ────────────────────────────────────────────────────────────

func TestScoreTurnDeterministic(t *testing.T) {
	bars := barsFromCloses(100, 103, 99)
	pos := &Position{Shares: 10, AvgCost: 95, EntryBar: 0}

	a := scoreTurn(bars, 0, 7, ActionSkip, pos, pos, 0.0005, 1e-4)
	b := scoreTurn(bars, 0, 7, ActionSkip, pos, pos, 0.0005, 1e-4)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("scoreTurn not deterministic:\n%+v\n%+v", a, b)
	}
	if pos.Shares != 10 || pos.AvgCost != 95 {
		t.Error("scoreTurn mutated the position argument")
	}

	if a.Prediction != DirectionUp || a.Actual != DirectionUp || a.Verdict != VerdictWin {
		t.Errorf("holding into an up move should win: %+v", a)
	}
	if a.PriceNow != 100 || a.PriceNext != 103 {
		t.Errorf("prices = (%v, %v), want (100, 103)", a.PriceNow, a.PriceNext)
	}
}

func TestScoreTurnFlatVerdictNone(t *testing.T) {
	bars := barsFromCloses(100, 100.02)
	out := scoreTurn(bars, 0, 0, ActionSkip, nil, nil, 0.0005, 1e-4)
	if out.Actual != DirectionFlat || out.Verdict != VerdictNone {
		t.Errorf("flat move: %+v", out)
	}
}

func TestScoreTurnNoNextBar(t *testing.T) {
	bars := barsFromCloses(100, 101)
	if out := scoreTurn(bars, 1, 0, ActionSkip, nil, nil, 0.0005, 1e-4); out != nil {
		t.Errorf("expected nil outcome at last bar, got %+v", out)
	}
}

// Buying and getting scored in the same turn must use the post-buy
// position for prediction: a previously-flat player who buys is scored
// as predicting up. Easy to invert accidentally: pinned here.
func TestPredictionUsesPostActionPosition(t *testing.T) {
	bars := flatBars(200, 100)
	bars[61].Close = 103 // up move after the buy bar
	g := newTestGame()
	g.LoadStock(testStock(bars), 60)

	g.Buy(50)
	out := g.LastOutcome()
	if out == nil {
		t.Fatal("no outcome recorded")
	}
	if out.Prediction != DirectionUp {
		t.Errorf("prediction = %s, want up (post-buy holding)", out.Prediction)
	}
	if out.Verdict != VerdictWin {
		t.Errorf("verdict = %s, want win", out.Verdict)
	}
	if out.PositionBefore != nil {
		t.Errorf("position before buy should be nil, got %+v", out.PositionBefore)
	}
	if out.PositionAfter == nil || out.PositionAfter.Shares <= 0 {
		t.Errorf("position after buy missing: %+v", out.PositionAfter)
	}

	// Mirror case: a full sell is scored as predicting down.
	bars2 := flatBars(200, 100)
	bars2[61].Close = 97
	g2 := newTestGame()
	g2.LoadStock(testStock(bars2), 60)
	g2.Buy(50)  // advances to 61
	g2.Sell(100) // flat again; 61→62 move is back up from 97 to 100

	out2 := g2.LastOutcome()
	if out2.Prediction != DirectionDown {
		t.Errorf("post-sell prediction = %s, want down", out2.Prediction)
	}
}

// ────────────────────────────────────────────────────────────
// Streaks
// ────────────────────────────────────────────────────────────

func TestStreakRunAndReset(t *testing.T) {
	var s SessionStats

	win := &TurnOutcome{Verdict: VerdictWin}
	loss := &TurnOutcome{Verdict: VerdictLoss}
	flat := &TurnOutcome{Verdict: VerdictNone}

	for i := 0; i < 4; i++ {
		s.record(win)
	}
	if s.CurrentStreak != 4 || s.BestStreak != 4 {
		t.Errorf("after 4 wins: current=%d best=%d", s.CurrentStreak, s.BestStreak)
	}

	s.record(loss)
	if s.CurrentStreak != -1 || s.WorstStreak != -1 {
		t.Errorf("after loss: current=%d worst=%d", s.CurrentStreak, s.WorstStreak)
	}
	s.record(loss)
	if s.CurrentStreak != -2 || s.WorstStreak != -2 {
		t.Errorf("after 2 losses: current=%d worst=%d", s.CurrentStreak, s.WorstStreak)
	}

	// A win after losses restarts at 1, not 0
	s.record(win)
	if s.CurrentStreak != 1 {
		t.Errorf("win after losses: current=%d, want 1", s.CurrentStreak)
	}
	if s.BestStreak != 4 {
		t.Errorf("best streak = %d, want 4", s.BestStreak)
	}

	// Flat leaves the streak untouched
	s.record(flat)
	if s.CurrentStreak != 1 || s.Flats != 1 {
		t.Errorf("after flat: current=%d flats=%d", s.CurrentStreak, s.Flats)
	}

	if s.TotalTurns != 8 || s.Wins != 5 || s.Losses != 2 {
		t.Errorf("tallies: %+v", s)
	}
}

func TestFlatOutcomeExcludedFromWinLoss(t *testing.T) {
	// Next close within ±0.05% of current: flats increments, streak
	// untouched, regardless of action.
	bars := flatBars(200, 100)
	bars[60].Close = 100
	bars[61].Close = 100.04
	g := newTestGame()
	g.LoadStock(testStock(bars), 60)

	g.Buy(50)
	s := g.Stats()
	if s.Flats != 1 {
		t.Errorf("flats = %d, want 1", s.Flats)
	}
	if s.Wins != 0 || s.Losses != 0 || s.CurrentStreak != 0 {
		t.Errorf("flat turn leaked into win/loss: %+v", s)
	}
}

func TestWinRate(t *testing.T) {
	s := SessionStats{Wins: 3, Losses: 1, Flats: 10}
	if got := s.WinRate(); got != 0.75 {
		t.Errorf("win rate = %v, want 0.75 (flats excluded)", got)
	}
	var empty SessionStats
	if empty.WinRate() != 0 {
		t.Error("empty win rate should be 0")
	}
}
