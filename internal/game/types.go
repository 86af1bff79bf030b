// Package game implements the turn-based trading engine: position
// accounting, turn advancement, outcome scoring, and streak/statistics
// bookkeeping for a single-player session.
//
// The engine is synchronous and single-owner: every operation runs to
// completion before the next player input, so no locking is needed.
package game

import "time"

// Action is the player decision that triggers a turn.
type Action string

const (
	ActionSkip Action = "skip"
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Direction classifies a close-to-close move against the flat threshold.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Verdict is the scored result of a turn. Flat moves score VerdictNone
// and are excluded from win/loss tallies.
type Verdict string

const (
	VerdictWin  Verdict = "win"
	VerdictLoss Verdict = "loss"
	VerdictNone Verdict = ""
)

// Position is the player's current long holding. A nil *Position means
// flat; shares at or below Config.ShareEpsilon are normalized to nil.
type Position struct {
	Shares   float64 `json:"shares"`
	AvgCost  float64 `json:"avg_cost"`   // volume-weighted average entry price
	EntryBar int     `json:"entry_bar"`  // bar index where the holding period began
}

// Trade is one executed buy or sell, filled at that bar's close.
// Append-only; Skip produces no Trade.
type Trade struct {
	ID       string    `json:"id"`
	Ticker   string    `json:"ticker"`
	Type     Action    `json:"type"` // buy or sell
	BarIndex int       `json:"bar_index"`
	Price    float64   `json:"price"`
	Shares   float64   `json:"shares"`
	At       time.Time `json:"at"`
}

// HoldingPeriod is a contiguous span of bars with shares > 0. Exit
// fields are nil while the period is still open; at most one period is
// open at a time.
type HoldingPeriod struct {
	EntryBar   int      `json:"entry_bar"`
	EntryPrice float64  `json:"entry_price"`
	ExitBar    *int     `json:"exit_bar,omitempty"`
	ExitPrice  *float64 `json:"exit_price,omitempty"`
}

// Open reports whether the holding period has not been exited yet.
func (h *HoldingPeriod) Open() bool { return h.ExitBar == nil }

// TurnOutcome is the immutable record of one completed turn.
type TurnOutcome struct {
	Turn           int       `json:"turn"`
	BarIndex       int       `json:"bar_index"` // index at decision time
	Action         Action    `json:"action"`
	PositionBefore *Position `json:"position_before,omitempty"`
	PositionAfter  *Position `json:"position_after,omitempty"`
	Prediction     Direction `json:"prediction"`
	Actual         Direction `json:"actual"`
	Verdict        Verdict   `json:"verdict,omitempty"`
	PriceNow       float64   `json:"price_now"`
	PriceNext      float64   `json:"price_next"`
}

// SessionStats aggregates results across charts within a session. It is
// externally serializable and may be rehydrated from persistence at
// startup; the engine mutates it only in the outcome-recording step.
type SessionStats struct {
	TotalTurns    int     `json:"total_turns"`
	TotalTrades   int     `json:"total_trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Flats         int     `json:"flats"`
	CurrentStreak int     `json:"current_streak"` // positive = win streak, negative = loss streak
	BestStreak    int     `json:"best_streak"`
	WorstStreak   int     `json:"worst_streak"`
	ChartsViewed  int     `json:"charts_viewed"`
	LatenciesMS   []int64 `json:"latencies_ms,omitempty"` // decision latency per turn
}

// WinRate returns wins / (wins + losses), ignoring flats. Zero when no
// decisive turn has been scored yet.
func (s *SessionStats) WinRate() float64 {
	decided := s.Wins + s.Losses
	if decided == 0 {
		return 0
	}
	return float64(s.Wins) / float64(decided)
}

// Config holds the engine tunables.
type Config struct {
	InitialCash  float64 // cash granted on each chart load
	Epsilon      float64 // relative close-to-close change below which a move is flat
	ShareEpsilon float64 // share quantity below which a position is considered closed
	LookbackMin  int     // bars of history required before the start index
	ForwardMin   int     // bars of future required after the start index
}

// DefaultConfig returns the standard game parameters.
func DefaultConfig() Config {
	return Config{
		InitialCash:  10000,
		Epsilon:      0.0005, // 0.05%
		ShareEpsilon: 1e-4,
		LookbackMin:  60,
		ForwardMin:   30,
	}
}
