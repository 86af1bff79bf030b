package game

import (
	"time"

	"github.com/google/uuid"

	"chartarcade/internal/model"
)

// Game is the turn engine for one player session. It owns the current
// bar pointer, cash, position, trade history, holding periods, turn
// outcomes, and the session stats aggregate.
//
// All mutating operations are total: precondition failures (no stock
// loaded, invalid percentage, nothing to sell) return false without
// touching any state.
type Game struct {
	cfg Config

	stock    *model.Stock
	barIndex int
	cash     float64
	position *Position

	trades   []Trade
	holdings []HoldingPeriod
	outcomes []TurnOutcome

	turn        int
	turnStarted time.Time

	stats      SessionStats
	lastAction Action
	lastOut    *TurnOutcome

	now func() time.Time // clock hook for tests
}

// New creates an engine with no stock loaded. stats is the initial
// session aggregate: pass a rehydrated value to resume a persisted
// session, or the zero value for a fresh one.
func New(cfg Config, stats SessionStats) *Game {
	return &Game{
		cfg:   cfg,
		stats: stats,
		now:   time.Now,
	}
}

// LoadStock installs a validated stock snapshot and resets all
// per-chart state: cash back to InitialCash, bar pointer to startIndex,
// empty trade/holding/outcome histories. Session stats persist across
// loads except ChartsViewed, which increments.
//
// startIndex must satisfy the caller's lookback/forward policy; the
// engine never reads past the last bar regardless.
func (g *Game) LoadStock(s *model.Stock, startIndex int) {
	g.stock = s
	g.barIndex = startIndex
	g.cash = g.cfg.InitialCash
	g.position = nil
	g.trades = nil
	g.holdings = nil
	g.outcomes = nil
	g.turn = 0
	g.turnStarted = g.now()
	g.lastAction = ""
	g.lastOut = nil
	g.stats.ChartsViewed++
}

// Skip advances one bar without trading. The held (unchanged) position
// drives the inferred prediction. Returns false if no stock is loaded.
func (g *Game) Skip() bool {
	if g.stock == nil {
		return false
	}
	before := g.position.clone()
	g.finishTurn(ActionSkip, before, g.position.clone())
	return true
}

// Buy spends percentage (0, 100] of current cash at the current bar's
// close, accumulating into the position at volume-weighted average
// cost, then scores and advances the turn. Returns false without
// mutation when no stock is loaded, the percentage is out of range, or
// there is no cash to spend.
func (g *Game) Buy(percentage float64) bool {
	if g.stock == nil || percentage <= 0 || percentage > 100 || g.cash <= 0 {
		return false
	}

	price := g.stock.Bars[g.barIndex].Close
	spend := g.cash * percentage / 100
	bought := spend / price
	before := g.position.clone()

	g.cash -= spend
	if before == nil {
		g.position = &Position{Shares: bought, AvgCost: price, EntryBar: g.barIndex}
		g.holdings = append(g.holdings, HoldingPeriod{EntryBar: g.barIndex, EntryPrice: price})
	} else {
		total := before.Shares + bought
		g.position = &Position{
			Shares:   total,
			AvgCost:  (before.Shares*before.AvgCost + bought*price) / total,
			EntryBar: before.EntryBar,
		}
	}
	g.appendTrade(ActionBuy, price, bought)

	g.finishTurn(ActionBuy, before, g.position.clone())
	return true
}

// Sell liquidates percentage (0, 100] of the current holding at the
// current bar's close, then scores and advances the turn. A remainder
// at or below ShareEpsilon closes the position and its holding period.
// Returns false without mutation when there is nothing to sell.
func (g *Game) Sell(percentage float64) bool {
	if g.stock == nil || percentage <= 0 || percentage > 100 ||
		g.position == nil || g.position.Shares <= 0 {
		return false
	}

	price := g.stock.Bars[g.barIndex].Close
	before := g.position.clone()
	sold := before.Shares * percentage / 100

	g.cash += sold * price
	remaining := before.Shares - sold
	if remaining <= g.cfg.ShareEpsilon {
		g.closeHolding(price)
		g.position = nil
	} else {
		g.position = &Position{Shares: remaining, AvgCost: before.AvgCost, EntryBar: before.EntryBar}
	}
	g.appendTrade(ActionSell, price, sold)

	g.finishTurn(ActionSell, before, g.position.clone())
	return true
}

// Switch prepares the engine for an instrument change: any open
// position is force-liquidated at the current close with full
// 100%-sell accounting (trade append, holding-period closure), and the
// outgoing ticker is returned for the reveal step. The engine does not
// pick or load the next stock: callers follow up with LoadStock.
//
// Unlike Sell, liquidation on switch is not a turn: no outcome is
// scored and the bar pointer does not advance.
func (g *Game) Switch() (outgoing string, ok bool) {
	if g.stock == nil {
		return "", false
	}
	if g.position != nil && g.position.Shares > 0 {
		price := g.stock.Bars[g.barIndex].Close
		g.cash += g.position.Shares * price
		g.appendTrade(ActionSell, price, g.position.Shares)
		g.closeHolding(price)
		g.position = nil
	}
	return g.stock.Ticker, true
}

// finishTurn runs the shared outcome-compute / advance / record / stats
// sequence. Trade mutations (if any) have already been applied; the
// post-action position drives prediction inference.
func (g *Game) finishTurn(action Action, before, after *Position) {
	out := scoreTurn(g.stock.Bars, g.barIndex, g.turn, action, before, after,
		g.cfg.Epsilon, g.cfg.ShareEpsilon)
	if out == nil {
		// No next bar: nothing to score and nowhere to advance. The
		// forward-minimum precondition at load time keeps normal play
		// away from here.
		return
	}

	g.barIndex++
	g.outcomes = append(g.outcomes, *out)
	g.stats.record(out)
	g.stats.LatenciesMS = append(g.stats.LatenciesMS, g.now().Sub(g.turnStarted).Milliseconds())
	g.turnStarted = g.now()
	g.turn++
	g.lastAction = action
	g.lastOut = out
}

func (g *Game) appendTrade(typ Action, price, shares float64) {
	g.trades = append(g.trades, Trade{
		ID:       uuid.NewString(),
		Ticker:   g.stock.Ticker,
		Type:     typ,
		BarIndex: g.barIndex,
		Price:    price,
		Shares:   shares,
		At:       g.now(),
	})
	g.stats.TotalTrades++
}

// closeHolding sets the exit fields on the most recent open holding
// period. Exactly one period can be open at a time.
func (g *Game) closeHolding(price float64) {
	for i := len(g.holdings) - 1; i >= 0; i-- {
		if g.holdings[i].Open() {
			bar := g.barIndex
			p := price
			g.holdings[i].ExitBar = &bar
			g.holdings[i].ExitPrice = &p
			return
		}
	}
}

func (p *Position) clone() *Position {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// ── Queries ─────────────────────────────────────────────────

// Loaded reports whether a stock snapshot is installed.
func (g *Game) Loaded() bool { return g.stock != nil }

// Ticker returns the active stock's ticker, or "" when none is loaded.
func (g *Game) Ticker() string {
	if g.stock == nil {
		return ""
	}
	return g.stock.Ticker
}

// BarIndex returns the current bar pointer.
func (g *Game) BarIndex() int { return g.barIndex }

// Cash returns the current cash balance.
func (g *Game) Cash() float64 { return g.cash }

// Position returns a copy of the current position, or nil when flat.
func (g *Game) Position() *Position { return g.position.clone() }

// Equity returns cash plus the position marked at the current close.
func (g *Game) Equity() float64 {
	if g.stock == nil || g.position == nil {
		return g.cash
	}
	return g.cash + g.position.Shares*g.stock.Bars[g.barIndex].Close
}

// VisibleBars returns the bar prefix revealed so far, bars[0..barIndex]
// inclusive. The slice aliases the immutable snapshot; callers must not
// modify it.
func (g *Game) VisibleBars() []model.Bar {
	if g.stock == nil {
		return nil
	}
	return g.stock.Bars[:g.barIndex+1]
}

// Trades returns a copy of the trade log.
func (g *Game) Trades() []Trade {
	cp := make([]Trade, len(g.trades))
	copy(cp, g.trades)
	return cp
}

// HoldingPeriods returns a copy of the holding-period log.
func (g *Game) HoldingPeriods() []HoldingPeriod {
	cp := make([]HoldingPeriod, len(g.holdings))
	copy(cp, g.holdings)
	return cp
}

// Outcomes returns a copy of the turn-outcome history for this chart.
func (g *Game) Outcomes() []TurnOutcome {
	cp := make([]TurnOutcome, len(g.outcomes))
	copy(cp, g.outcomes)
	return cp
}

// Turn returns the number of completed turns on the current chart.
func (g *Game) Turn() int { return g.turn }

// LastAction returns the most recent successful action, or "".
func (g *Game) LastAction() Action { return g.lastAction }

// LastOutcome returns a copy of the most recent turn outcome, or nil.
func (g *Game) LastOutcome() *TurnOutcome {
	if g.lastOut == nil {
		return nil
	}
	cp := *g.lastOut
	return &cp
}

// Stats returns a copy of the session aggregate.
func (g *Game) Stats() SessionStats {
	cp := g.stats
	cp.LatenciesMS = append([]int64(nil), g.stats.LatenciesMS...)
	return cp
}

// Config returns the engine configuration.
func (g *Game) Config() Config { return g.cfg }
