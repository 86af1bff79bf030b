// Package resample converts daily bars into coarser timeframes for the
// chart layer. Aggregation is a pure function of the input bars:
// deterministic and idempotent for a given prefix.
package resample

import "chartarcade/internal/model"

// weekKey identifies one ISO week bucket.
type weekKey struct {
	year int
	week int
}

func keyOf(b model.Bar) weekKey {
	y, w := b.Time.ISOWeek()
	return weekKey{year: y, week: w}
}

// Weekly groups daily bars by ISO week-of-year and emits one bar per
// week: open from the first trading day, close from the last, high/low
// from the window extrema, volume summed, dated on the last trading day
// of the week. Input must be daily bars in chronological order.
func Weekly(bars []model.Bar) []model.Bar {
	if len(bars) == 0 {
		return nil
	}

	out := make([]model.Bar, 0, len(bars)/5+1)
	forming := bars[0]
	bucket := keyOf(bars[0])

	for _, b := range bars[1:] {
		k := keyOf(b)
		if k != bucket {
			// New week: finalize the forming bar
			out = append(out, forming)
			forming = b
			bucket = k
			continue
		}

		// Same week: merge OHLCV
		if b.High > forming.High {
			forming.High = b.High
		}
		if b.Low < forming.Low {
			forming.Low = b.Low
		}
		forming.Close = b.Close
		forming.Volume += b.Volume
		forming.Time = b.Time // week bar carries the last trading day's date
	}

	return append(out, forming)
}
