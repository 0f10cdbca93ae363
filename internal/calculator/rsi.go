package calculator

import "StockCharter/internal/model"

const rsiPeriod = 14

// applyRSI adds the 14-day relative strength index column over close.
func applyRSI(s *model.Series) {
	s.SetColumn(ColRSI, rsiSeries(s.Close, rsiPeriod))
}

// rsiSeries computes a Wilder-smoothed RSI. While fewer than period changes
// are available the seed window shrinks to the rows actually seen, so every
// position is defined; the first row reports the neutral 50.
func rsiSeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	out[0] = 50.0

	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		if i <= period {
			// Seed phase: plain average over the changes seen so far.
			avgGain = (avgGain*float64(i-1) + gain) / float64(i)
			avgLoss = (avgLoss*float64(i-1) + loss) / float64(i)
		} else {
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		}

		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = 50.0
		case avgLoss == 0:
			out[i] = 100.0
		default:
			rs := avgGain / avgLoss
			out[i] = 100.0 - 100.0/(1.0+rs)
		}
	}
	return out
}
