package model

import (
	"fmt"
	"math"
	"time"
)

// Bar is a single daily candlestick as delivered by a data provider.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Column is a named derived sequence aligned 1:1 with the series dates.
// Positions before an indicator's warm-up window hold NaN.
type Column struct {
	Name   string
	Values []float64
}

// Tone classifies one Ichimoku cloud segment between two adjacent days.
type Tone int8

const (
	ToneNeutral Tone = iota
	ToneBullish
	ToneBearish
)

func (t Tone) String() string {
	switch t {
	case ToneBullish:
		return "bullish"
	case ToneBearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Series holds daily OHLCV history for one symbol in columnar form,
// plus any derived indicator columns. Dates are strictly increasing.
type Series struct {
	Symbol string
	Dates  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64

	// Derived columns, in the order they were added.
	Derived []Column

	// Cloud holds per-segment Ichimoku tones (Cloud[i] covers days i-1..i).
	// Populated only when the Ichimoku indicator was applied; Cloud[0] is
	// always neutral.
	Cloud []Tone
}

// NewSeries builds a columnar series from provider bars.
func NewSeries(symbol string, bars []Bar) *Series {
	s := &Series{
		Symbol: symbol,
		Dates:  make([]time.Time, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
		Volume: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.Dates[i] = b.Date
		s.Open[i] = b.Open
		s.High[i] = b.High
		s.Low[i] = b.Low
		s.Close[i] = b.Close
		s.Volume[i] = b.Volume
	}
	return s
}

// Len returns the number of daily rows.
func (s *Series) Len() int { return len(s.Dates) }

// Bars converts the series back to row form, derived columns excluded.
func (s *Series) Bars() []Bar {
	bars := make([]Bar, s.Len())
	for i := range bars {
		bars[i] = Bar{
			Date:   s.Dates[i],
			Open:   s.Open[i],
			High:   s.High[i],
			Low:    s.Low[i],
			Close:  s.Close[i],
			Volume: s.Volume[i],
		}
	}
	return bars
}

// Validate checks the series invariants: equal column lengths and strictly
// increasing dates.
func (s *Series) Validate() error {
	n := len(s.Dates)
	cols := map[string][]float64{
		"open":   s.Open,
		"high":   s.High,
		"low":    s.Low,
		"close":  s.Close,
		"volume": s.Volume,
	}
	for name, col := range cols {
		if col == nil || len(col) != n {
			return fmt.Errorf("series %s: column %s missing or misaligned", s.Symbol, name)
		}
	}
	for i := 1; i < n; i++ {
		if !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("series %s: dates not strictly increasing at row %d (%s >= %s)",
				s.Symbol, i, s.Dates[i-1].Format("2006-01-02"), s.Dates[i].Format("2006-01-02"))
		}
	}
	return nil
}

// Clone returns a deep copy of the series. Indicator application works on a
// clone so the source series is never mutated.
func (s *Series) Clone() *Series {
	c := &Series{
		Symbol: s.Symbol,
		Dates:  append([]time.Time(nil), s.Dates...),
		Open:   append([]float64(nil), s.Open...),
		High:   append([]float64(nil), s.High...),
		Low:    append([]float64(nil), s.Low...),
		Close:  append([]float64(nil), s.Close...),
		Volume: append([]float64(nil), s.Volume...),
		Cloud:  append([]Tone(nil), s.Cloud...),
	}
	for _, col := range s.Derived {
		c.Derived = append(c.Derived, Column{
			Name:   col.Name,
			Values: append([]float64(nil), col.Values...),
		})
	}
	return c
}

// SetColumn adds a derived column, replacing any existing column of the
// same name.
func (s *Series) SetColumn(name string, values []float64) {
	for i := range s.Derived {
		if s.Derived[i].Name == name {
			s.Derived[i].Values = values
			return
		}
	}
	s.Derived = append(s.Derived, Column{Name: name, Values: values})
}

// ColumnValues returns the named derived column, or nil if absent.
func (s *Series) ColumnValues(name string) []float64 {
	for _, col := range s.Derived {
		if col.Name == name {
			return col.Values
		}
	}
	return nil
}

// Defined reports whether a derived value is defined (not the NaN sentinel).
func Defined(v float64) bool { return !math.IsNaN(v) }
