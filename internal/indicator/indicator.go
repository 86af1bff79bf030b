// Package indicator provides technical indicator calculations over bar
// data.
//
// Streaming cores implement the Indicator interface with O(1) updates;
// the Series helpers run a core over a visible bar prefix and return
// time-aligned output. Indicators never fabricate values before their
// warm-up window: a series records the bar index of its first defined
// value instead of padding.
package indicator

import "chartarcade/internal/model"

// Indicator is the interface for all streaming indicator cores.
type Indicator interface {
	// Name returns the indicator name (e.g., "SMA_20", "RSI_14").
	Name() string

	// Update feeds the next bar and recalculates.
	Update(bar model.Bar)

	// Value returns the current calculated value. 0 until Ready.
	Value() float64

	// Ready returns true once enough bars have been accumulated.
	Ready() bool
}

// Series is one time-aligned indicator output over a bar prefix.
// Values[0] corresponds to bar index Start; earlier bars have no value.
// Color applies to the whole series; Colors, when set, gives one color
// per value and takes precedence (the MACD histogram colors by sign).
type Series struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Colors []string  `json:"colors,omitempty"`
	Start  int       `json:"start"`
	Values []float64 `json:"values"`
}

// At returns the value at absolute bar index i, if defined.
func (s *Series) At(i int) (float64, bool) {
	j := i - s.Start
	if j < 0 || j >= len(s.Values) {
		return 0, false
	}
	return s.Values[j], true
}

// Len returns the number of defined values.
func (s *Series) Len() int { return len(s.Values) }

// collect runs a fresh streaming core over bars and returns its aligned
// series: one value per bar from the first Ready() update onward.
func collect(name string, ind Indicator, bars []model.Bar) Series {
	s := Series{Name: name, Start: -1}
	for i, b := range bars {
		ind.Update(b)
		if !ind.Ready() {
			continue
		}
		if s.Start < 0 {
			s.Start = i
		}
		s.Values = append(s.Values, ind.Value())
	}
	if s.Start < 0 {
		s.Start = 0
	}
	return s
}
