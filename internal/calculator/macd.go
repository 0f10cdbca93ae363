package calculator

import "StockCharter/internal/model"

// Standard MACD construction: 12/26-day EMAs over close, 9-day signal.
const (
	macdShortPeriod  = 12
	macdLongPeriod   = 26
	macdSignalPeriod = 9
)

// ema computes an exponential moving average seeded with the simple average
// of the first period values. Positions before the seed are undefined.
func ema(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[period-1] = sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// applyMACD adds the MACD histogram column: the difference between the MACD
// line (short EMA - long EMA) and its signal line. Rows before the combined
// warm-up of the long and signal periods are undefined.
func applyMACD(s *model.Series) {
	n := s.Len()
	diff := nanSlice(n)

	if n >= macdLongPeriod {
		short := ema(s.Close, macdShortPeriod)
		long := ema(s.Close, macdLongPeriod)

		// The MACD line is defined from the long EMA's first value onward.
		start := macdLongPeriod - 1
		line := make([]float64, n-start)
		for i := range line {
			line[i] = short[start+i] - long[start+i]
		}

		signal := ema(line, macdSignalPeriod)
		for i, sig := range signal {
			if model.Defined(sig) {
				diff[start+i] = line[i] - sig
			}
		}
	}
	s.SetColumn(ColMACD, diff)
}
