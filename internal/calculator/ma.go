package calculator

import "StockCharter/internal/model"

// rollingMean computes a trailing simple moving average over the given
// window. At the start of the series the average covers however many values
// are actually available, so every position is defined.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// applySMA builds the apply function for one simple-moving-average column
// over close.
func applySMA(window int, col string) applyFunc {
	return func(s *model.Series) {
		s.SetColumn(col, rollingMean(s.Close, window))
	}
}
