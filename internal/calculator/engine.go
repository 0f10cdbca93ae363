package calculator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"StockCharter/internal/model"
)

// Column names appended to a series by each indicator family. The Bollinger
// and Ichimoku names follow the conventional chart labels.
const (
	ColMA20     = "MA20"
	ColMA50     = "MA50"
	ColMA200    = "MA200"
	ColMACD     = "MACD"
	ColRSI      = "RSI"
	ColBBUpper  = "BB_upper"
	ColBBLower  = "BB_lower"
	ColBBMiddle = "BB_middle"
	ColTenkan   = "Tenkan_sen"
	ColKijun    = "Kijun_sen"
	ColSpanA    = "Senkou_span_a"
	ColSpanB    = "Senkou_span_b"
	ColChikou   = "Chikou_span"
)

// ErrMissingColumn indicates the input series lacks a required OHLCV column.
// This is a contract violation by the caller, not a data condition.
var ErrMissingColumn = errors.New("missing required OHLCV column")

type applyFunc func(*model.Series)

// registry is the closed vocabulary of recognized indicator names. Names not
// present here are silently ignored by Apply.
var registry = map[string]applyFunc{
	"MA20":           applySMA(20, ColMA20),
	"MA50":           applySMA(50, ColMA50),
	"MA200":          applySMA(200, ColMA200),
	"MACD":           applyMACD,
	"RSI":            applyRSI,
	"BollingerBands": applyBollinger,
	"Ichimoku":       applyIchimoku,
}

// Names splits a comma-separated indicator list, trimming whitespace and
// dropping empty elements. Order is preserved.
func Names(list string) []string {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Apply returns a copy of the series augmented with one derived column set
// per recognized indicator name, applied in the order given. The input
// series is never modified. Unknown names are skipped without error.
func Apply(s *model.Series, names []string) (*model.Series, error) {
	if err := requireOHLCV(s); err != nil {
		return nil, err
	}
	out := s.Clone()
	for _, name := range names {
		if fn, ok := registry[name]; ok {
			fn(out)
		}
	}
	return out, nil
}

func requireOHLCV(s *model.Series) error {
	n := len(s.Dates)
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"open", s.Open},
		{"high", s.High},
		{"low", s.Low},
		{"close", s.Close},
		{"volume", s.Volume},
	} {
		if col.values == nil || len(col.values) != n {
			return fmt.Errorf("%w: %s (series %s)", ErrMissingColumn, col.name, s.Symbol)
		}
	}
	return nil
}

// nanSlice returns a slice of the given length filled with the undefined
// sentinel.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
