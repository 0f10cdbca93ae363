package calculator

import (
	"math"

	"StockCharter/internal/model"
)

const (
	bbWindow = 20
	bbDev    = 2.0
)

// applyBollinger adds the three Bollinger Band columns: a 20-day simple
// moving average of close (middle) plus/minus two standard deviations over
// the same trailing window. Rows without a full window are undefined.
func applyBollinger(s *model.Series) {
	n := s.Len()
	upper := nanSlice(n)
	lower := nanSlice(n)
	middle := nanSlice(n)

	for i := bbWindow - 1; i < n; i++ {
		sum := 0.0
		for j := i - bbWindow + 1; j <= i; j++ {
			sum += s.Close[j]
		}
		mean := sum / bbWindow

		variance := 0.0
		for j := i - bbWindow + 1; j <= i; j++ {
			d := s.Close[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / bbWindow)

		middle[i] = mean
		upper[i] = mean + bbDev*std
		lower[i] = mean - bbDev*std
	}

	s.SetColumn(ColBBUpper, upper)
	s.SetColumn(ColBBLower, lower)
	s.SetColumn(ColBBMiddle, middle)
}
