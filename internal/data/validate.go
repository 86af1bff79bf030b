package data

import (
	"fmt"
	"math"

	"chartarcade/internal/model"
)

// Validate checks the structural integrity the engine relies on:
// minimum length, strictly ascending unique dates, finite positive
// prices with high >= max(open, close) and low <= min(open, close),
// and non-negative volume.
func Validate(s *model.Stock, minBars int) error {
	if s.Ticker == "" {
		return fmt.Errorf("missing ticker")
	}
	if len(s.Bars) < minBars {
		return fmt.Errorf("%d bars, need at least %d", len(s.Bars), minBars)
	}

	for i, b := range s.Bars {
		if !validPrice(b.Open) || !validPrice(b.High) || !validPrice(b.Low) || !validPrice(b.Close) {
			return fmt.Errorf("bar %d (%s): non-positive or non-finite price", i, b.Time)
		}
		if b.High < b.Open || b.High < b.Close || b.Low > b.Open || b.Low > b.Close {
			return fmt.Errorf("bar %d (%s): OHLC ordering violated", i, b.Time)
		}
		if b.Volume < 0 {
			return fmt.Errorf("bar %d (%s): negative volume", i, b.Time)
		}
		if i > 0 && !s.Bars[i-1].Time.Before(b.Time) {
			return fmt.Errorf("bar %d (%s): dates not strictly ascending", i, b.Time)
		}
	}
	return nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// Gaps counts spans between consecutive bars longer than maxGapDays,
// the same significant-gap check the fetch script reports. Useful for
// flagging suspect data files at load time.
func Gaps(bars []model.Bar, maxGapDays int) int {
	gaps := 0
	for i := 1; i < len(bars); i++ {
		days := int(bars[i].Time.Sub(bars[i-1].Time.Time).Hours() / 24)
		if days > maxGapDays {
			gaps++
		}
	}
	return gaps
}
