package indicator

import "chartarcade/internal/model"

// Kind enumerates the supported indicator types.
type Kind string

const (
	KindSMA       Kind = "sma"
	KindEMA       Kind = "ema"
	KindBollinger Kind = "bollinger"
	KindRSI       Kind = "rsi"
	KindMACD      Kind = "macd"
	KindVWAP      Kind = "vwap"
)

// Params is the tagged-variant parameter record for one indicator kind.
// Each kind carries its own strongly-typed struct; there is no generic
// string-keyed parameter map.
type Params interface {
	Kind() Kind
}

type SMAParams struct {
	Period int `json:"period"`
}

func (SMAParams) Kind() Kind { return KindSMA }

type EMAParams struct {
	Period int `json:"period"`
}

func (EMAParams) Kind() Kind { return KindEMA }

type BollingerParams struct {
	Period     int     `json:"period"`
	StdDevMult float64 `json:"std_dev_mult"`
}

func (BollingerParams) Kind() Kind { return KindBollinger }

type RSIParams struct {
	Period int `json:"period"`
}

func (RSIParams) Kind() Kind { return KindRSI }

type MACDParams struct {
	FastPeriod   int `json:"fast_period"`
	SlowPeriod   int `json:"slow_period"`
	SignalPeriod int `json:"signal_period"`
}

func (MACDParams) Kind() Kind { return KindMACD }

type VWAPParams struct{}

func (VWAPParams) Kind() Kind { return KindVWAP }

// Overlay is one configured indicator: a kind-tagged parameter record
// plus display state, keyed by a stable counter-assigned ID.
type Overlay struct {
	ID      int    `json:"id"`
	Enabled bool   `json:"enabled"`
	Color   string `json:"color,omitempty"`
	Params  Params `json:"params"`
}

// Evaluate computes the overlay's series against a visible bar prefix.
// Stateless and idempotent: the same prefix and parameters always
// produce identical output. MACD histogram point colors come from
// HistogramColor.
func (o *Overlay) Evaluate(bars []model.Bar) []Series {
	var out []Series
	switch p := o.Params.(type) {
	case SMAParams:
		out = []Series{SMASeries(bars, p.Period)}
	case EMAParams:
		out = []Series{EMASeries(bars, p.Period)}
	case BollingerParams:
		mid, up, low := BollingerSeries(bars, p.Period, p.StdDevMult)
		out = []Series{mid, up, low}
	case RSIParams:
		out = []Series{RSISeries(bars, p.Period)}
	case MACDParams:
		line, sig, hist := MACDSeries(bars, p.FastPeriod, p.SlowPeriod, p.SignalPeriod)
		out = []Series{line, sig, hist}
	case VWAPParams:
		out = []Series{VWAPSeries(bars)}
	}
	for i := range out {
		// Per-point colors (the histogram's sign coloring) win over
		// the overlay color.
		if len(out[i].Colors) == 0 {
			out[i].Color = o.Color
		}
	}
	return out
}

// Set is an ordered collection of overlays with counter-assigned IDs.
// Single-owner like the engine: no internal locking.
type Set struct {
	nextID   int
	overlays []Overlay
}

// NewSet creates an empty overlay set.
func NewSet() *Set { return &Set{nextID: 1} }

// DefaultSet returns the overlays enabled on a fresh chart.
func DefaultSet() *Set {
	s := NewSet()
	s.Add(SMAParams{Period: 20}, "#f5a623")
	s.Add(EMAParams{Period: 9}, "#4a90d9")
	return s
}

// Add appends an overlay (enabled) and returns its stable ID.
func (s *Set) Add(p Params, color string) int {
	id := s.nextID
	s.nextID++
	s.overlays = append(s.overlays, Overlay{ID: id, Enabled: true, Color: color, Params: p})
	return id
}

// Remove deletes the overlay with the given ID, preserving order.
func (s *Set) Remove(id int) bool {
	for i := range s.overlays {
		if s.overlays[i].ID == id {
			s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled toggles an overlay without recomputing anything.
func (s *Set) SetEnabled(id int, enabled bool) bool {
	for i := range s.overlays {
		if s.overlays[i].ID == id {
			s.overlays[i].Enabled = enabled
			return true
		}
	}
	return false
}

// Overlays returns a copy of the overlays in insertion order.
func (s *Set) Overlays() []Overlay {
	cp := make([]Overlay, len(s.overlays))
	copy(cp, s.overlays)
	return cp
}

// EvaluateAll computes series for every enabled overlay against the
// visible bar prefix.
func (s *Set) EvaluateAll(bars []model.Bar) []Series {
	var result []Series
	for i := range s.overlays {
		if !s.overlays[i].Enabled {
			continue
		}
		result = append(result, s.overlays[i].Evaluate(bars)...)
	}
	return result
}
