package gateway

import (
	"fmt"

	"chartarcade/internal/game"
	"chartarcade/internal/indicator"
	"chartarcade/internal/model"
)

// Request is one player message. Op selects the operation; the other
// fields apply per-op.
type Request struct {
	Op  string  `json:"op"`
	Pct float64 `json:"pct,omitempty"` // buy/sell percentage of cash/shares

	// Overlay management
	OverlayID int     `json:"overlay_id,omitempty"`
	Enabled   bool    `json:"enabled,omitempty"`
	Kind      string  `json:"kind,omitempty"`
	Color     string  `json:"color,omitempty"`
	Period    int     `json:"period,omitempty"`
	StdDev    float64 `json:"std_dev_mult,omitempty"`
	Fast      int     `json:"fast_period,omitempty"`
	Slow      int     `json:"slow_period,omitempty"`
	Signal    int     `json:"signal_period,omitempty"`
}

// overlayParams builds the tagged parameter record for an overlay_add
// request. Parameter sets the indicator cores cannot run on (zero or
// negative windows) are rejected here, on the untrusted boundary, so a
// bad request can never reach an evaluation.
func (r *Request) overlayParams() (indicator.Params, error) {
	switch indicator.Kind(r.Kind) {
	case indicator.KindSMA:
		if err := checkPeriod(r.Kind, r.Period); err != nil {
			return nil, err
		}
		return indicator.SMAParams{Period: r.Period}, nil
	case indicator.KindEMA:
		if err := checkPeriod(r.Kind, r.Period); err != nil {
			return nil, err
		}
		return indicator.EMAParams{Period: r.Period}, nil
	case indicator.KindBollinger:
		if err := checkPeriod(r.Kind, r.Period); err != nil {
			return nil, err
		}
		if r.StdDev <= 0 {
			return nil, fmt.Errorf("bollinger std_dev_mult must be positive, got %g", r.StdDev)
		}
		return indicator.BollingerParams{Period: r.Period, StdDevMult: r.StdDev}, nil
	case indicator.KindRSI:
		if err := checkPeriod(r.Kind, r.Period); err != nil {
			return nil, err
		}
		return indicator.RSIParams{Period: r.Period}, nil
	case indicator.KindMACD:
		if r.Fast < 1 || r.Signal < 1 || r.Fast >= r.Slow {
			return nil, fmt.Errorf("macd needs 1 <= fast < slow and signal >= 1, got %d/%d/%d",
				r.Fast, r.Slow, r.Signal)
		}
		return indicator.MACDParams{FastPeriod: r.Fast, SlowPeriod: r.Slow, SignalPeriod: r.Signal}, nil
	case indicator.KindVWAP:
		return indicator.VWAPParams{}, nil
	default:
		return nil, fmt.Errorf("unknown indicator kind %q", r.Kind)
	}
}

func checkPeriod(kind string, period int) error {
	if period < 1 {
		return fmt.Errorf("%s period must be at least 1, got %d", kind, period)
	}
	return nil
}

// StateMsg is the full snapshot sent after every successful operation.
// The ticker is deliberately absent: charts stay anonymous until the
// reveal on switch.
type StateMsg struct {
	Type     string               `json:"type"` // "state"
	Bars     []model.Bar          `json:"bars"` // visible prefix
	BarIndex int                  `json:"bar_index"`
	Cash     float64              `json:"cash"`
	Equity   float64              `json:"equity"`
	Position *game.Position       `json:"position,omitempty"`
	Trades   []game.Trade         `json:"trades"`
	Holdings []game.HoldingPeriod `json:"holdings"`
	Turn     int                  `json:"turn"`
	LastOut  *game.TurnOutcome    `json:"last_outcome,omitempty"`
	Stats    game.SessionStats    `json:"stats"`
	Overlays []overlayMsg         `json:"overlays"`
	Series   []indicator.Series   `json:"series"`
}

type overlayMsg struct {
	ID      int            `json:"id"`
	Kind    indicator.Kind `json:"kind"`
	Enabled bool           `json:"enabled"`
	Color   string         `json:"color,omitempty"`
}

// RevealMsg discloses the outgoing chart's identity after a switch.
type RevealMsg struct {
	Type   string `json:"type"` // "reveal"
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
	Sector string `json:"sector,omitempty"`
}

// WeeklyMsg carries the weekly-resampled view of the visible prefix.
type WeeklyMsg struct {
	Type string      `json:"type"` // "weekly"
	Bars []model.Bar `json:"bars"`
}

// ErrorMsg reports a rejected or malformed request. Rejections leave
// game state untouched.
type ErrorMsg struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

func errorMsg(format string, args ...any) ErrorMsg {
	return ErrorMsg{Type: "error", Error: fmt.Sprintf(format, args...)}
}

// trades and holdings marshal as [] rather than null for empty sessions.
func (s *session) stateMsg() StateMsg {
	g := s.game
	bars := g.VisibleBars()

	msg := StateMsg{
		Type:     "state",
		Bars:     bars,
		BarIndex: g.BarIndex(),
		Cash:     g.Cash(),
		Equity:   g.Equity(),
		Position: g.Position(),
		Trades:   g.Trades(),
		Holdings: g.HoldingPeriods(),
		Turn:     g.Turn(),
		LastOut:  g.LastOutcome(),
		Stats:    g.Stats(),
	}

	for _, o := range s.overlays.Overlays() {
		msg.Overlays = append(msg.Overlays, overlayMsg{
			ID:      o.ID,
			Kind:    o.Params.Kind(),
			Enabled: o.Enabled,
			Color:   o.Color,
		})
	}

	if len(bars) > 0 {
		start := s.srv.now()
		msg.Series = s.overlays.EvaluateAll(bars)
		s.srv.metrics.IndicatorComputeDur.Observe(s.srv.now().Sub(start).Seconds())
	}
	return msg
}
