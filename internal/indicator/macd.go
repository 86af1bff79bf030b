package indicator

import "chartarcade/internal/model"

// MACD calculates Moving Average Convergence Divergence:
// line = EMA(fast) - EMA(slow), signal = EMA(line, signalPeriod),
// histogram = line - signal. The line exists once the slow EMA is
// seeded; the signal needs signalPeriod line values on top of that.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA

	line      float64
	signalVal float64
	lineReady bool
}

// NewMACD creates a MACD indicator (typically 12, 26, 9).
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: NewEMA(signalPeriod),
	}
}

func (m *MACD) Name() string {
	return "MACD_" + itoa(m.fast.period) + "_" + itoa(m.slow.period) + "_" + itoa(m.signal.period)
}

func (m *MACD) Update(bar model.Bar) {
	m.fast.Update(bar)
	m.slow.Update(bar)

	if !m.fast.Ready() || !m.slow.Ready() {
		return
	}
	m.line = m.fast.Value() - m.slow.Value()
	m.lineReady = true

	m.signal.update(m.line)
	if m.signal.Ready() {
		m.signalVal = m.signal.Value()
	}
}

// Value returns the MACD line, satisfying the Indicator interface.
func (m *MACD) Value() float64 { return m.line }

// Ready reports whether the MACD line exists (both EMAs seeded).
func (m *MACD) Ready() bool { return m.lineReady }

// SignalReady reports whether the signal line (and histogram) exist.
func (m *MACD) SignalReady() bool { return m.signal.Ready() }

// Lines returns the MACD line, the signal line, and the histogram.
func (m *MACD) Lines() (line, signal, histogram float64) {
	return m.line, m.signalVal, m.line - m.signalVal
}

// MACDSeries computes the three MACD series over the visible bar
// prefix. The line starts at bar index slow-1; signal and histogram
// start signalPeriod-1 bars later.
func MACDSeries(bars []model.Bar, fastPeriod, slowPeriod, signalPeriod int) (line, signal, histogram Series) {
	macd := NewMACD(fastPeriod, slowPeriod, signalPeriod)
	name := macd.Name()
	line = Series{Name: name + "_line", Start: -1}
	signal = Series{Name: name + "_signal", Start: -1}
	histogram = Series{Name: name + "_hist", Start: -1}

	for i, bar := range bars {
		macd.Update(bar)
		if !macd.Ready() {
			continue
		}
		if line.Start < 0 {
			line.Start = i
		}
		line.Values = append(line.Values, macd.line)

		if !macd.SignalReady() {
			continue
		}
		if signal.Start < 0 {
			signal.Start, histogram.Start = i, i
		}
		_, sig, hist := macd.Lines()
		signal.Values = append(signal.Values, sig)
		histogram.Values = append(histogram.Values, hist)
		histogram.Colors = append(histogram.Colors, HistogramColor(hist))
	}
	if line.Start < 0 {
		line.Start = 0
	}
	if signal.Start < 0 {
		signal.Start, histogram.Start = 0, 0
	}
	return line, signal, histogram
}

// Histogram display colors: positive bars render in the up color,
// negative in the down color.
const (
	HistogramUpColor   = "#26a69a"
	HistogramDownColor = "#ef5350"
)

// HistogramColor returns the display color for one histogram value.
func HistogramColor(v float64) string {
	if v >= 0 {
		return HistogramUpColor
	}
	return HistogramDownColor
}
