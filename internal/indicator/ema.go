package indicator

import "chartarcade/internal/model"

// EMA calculates Exponential Moving Average of closes, seeded with the
// SMA of the first period bars. O(1) per update.
type EMA struct {
	period     int
	multiplier float64
	current    float64
	count      int
	sum        float64
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return "EMA_" + itoa(e.period) }

func (e *EMA) Update(bar model.Bar) {
	e.update(bar.Close)
}

// update feeds a raw value, so the same core can smooth derived series
// (the MACD signal line) as well as closes.
func (e *EMA) update(price float64) {
	e.count++

	if e.count <= e.period {
		// Accumulate for initial SMA seed
		e.sum += price
		if e.count == e.period {
			e.current = e.sum / float64(e.period)
		}
		return
	}

	// EMA = (Price - EMA_prev) * multiplier + EMA_prev
	e.current = (price-e.current)*e.multiplier + e.current
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.count >= e.period }

// EMASeries computes EMA(period) over the visible bar prefix. The first
// value (the SMA seed) lands at bar index period-1.
func EMASeries(bars []model.Bar, period int) Series {
	ema := NewEMA(period)
	return collect(ema.Name(), ema, bars)
}
