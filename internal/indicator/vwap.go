package indicator

import "chartarcade/internal/model"

// VWAP calculates the cumulative Volume-Weighted Average Price from the
// start of the bar set: sum(typical price * volume) / sum(volume),
// with typical price = (high + low + close) / 3.
type VWAP struct {
	cumPV  float64
	cumVol float64
	count  int
}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() *VWAP { return &VWAP{} }

func (v *VWAP) Name() string { return "VWAP" }

func (v *VWAP) Update(bar model.Bar) {
	v.cumPV += bar.TypicalPrice() * float64(bar.Volume)
	v.cumVol += float64(bar.Volume)
	v.count++
}

func (v *VWAP) Value() float64 {
	if v.cumVol == 0 {
		// Zero-volume prefix: no trades to weight yet
		return 0
	}
	return v.cumPV / v.cumVol
}

func (v *VWAP) Ready() bool { return v.count > 0 }

// VWAPSeries computes VWAP over the visible bar prefix, defined from
// the first bar.
func VWAPSeries(bars []model.Bar) Series {
	vwap := NewVWAP()
	return collect(vwap.Name(), vwap, bars)
}
