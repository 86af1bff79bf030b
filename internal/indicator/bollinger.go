package indicator

import (
	"math"

	"chartarcade/internal/model"
)

// Bollinger calculates Bollinger Bands: an SMA middle band with upper
// and lower bands at mult population standard deviations. The window
// is a circular buffer; the deviation pass is O(period) per update.
type Bollinger struct {
	period int
	mult   float64
	buf    []float64
	idx    int
	count  int
	sum    float64

	middle float64
	upper  float64
	lower  float64
}

// NewBollinger creates Bollinger Bands with the given period and
// standard-deviation multiplier (typically 20 and 2).
func NewBollinger(period int, mult float64) *Bollinger {
	return &Bollinger{
		period: period,
		mult:   mult,
		buf:    make([]float64, period),
	}
}

func (b *Bollinger) Name() string { return "BB_" + itoa(b.period) }

func (b *Bollinger) Update(bar model.Bar) {
	price := bar.Close

	if b.count >= b.period {
		b.sum -= b.buf[b.idx]
	}
	b.buf[b.idx] = price
	b.sum += price
	b.idx = (b.idx + 1) % b.period
	b.count++

	if b.count < b.period {
		return
	}

	mean := b.sum / float64(b.period)
	variance := 0.0
	for _, v := range b.buf {
		d := v - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(b.period))

	b.middle = mean
	b.upper = mean + stdDev*b.mult
	b.lower = mean - stdDev*b.mult
}

// Value returns the middle band, satisfying the Indicator interface.
func (b *Bollinger) Value() float64 { return b.middle }
func (b *Bollinger) Ready() bool    { return b.count >= b.period }

// Bands returns middle, upper, and lower band values.
func (b *Bollinger) Bands() (middle, upper, lower float64) {
	return b.middle, b.upper, b.lower
}

// BollingerSeries computes the three bands over the visible bar prefix,
// all aligned from bar index period-1.
func BollingerSeries(bars []model.Bar, period int, mult float64) (middle, upper, lower Series) {
	bb := NewBollinger(period, mult)
	name := bb.Name()
	middle = Series{Name: name + "_mid", Start: -1}
	upper = Series{Name: name + "_upper", Start: -1}
	lower = Series{Name: name + "_lower", Start: -1}

	for i, bar := range bars {
		bb.Update(bar)
		if !bb.Ready() {
			continue
		}
		if middle.Start < 0 {
			middle.Start, upper.Start, lower.Start = i, i, i
		}
		m, u, l := bb.Bands()
		middle.Values = append(middle.Values, m)
		upper.Values = append(upper.Values, u)
		lower.Values = append(lower.Values, l)
	}
	if middle.Start < 0 {
		middle.Start, upper.Start, lower.Start = 0, 0, 0
	}
	return middle, upper, lower
}
