package calculator

import "StockCharter/internal/model"

// Ichimoku windows: conversion 9, base 26, leading span B 52. The lagging
// span shifts close backward by the base window.
const (
	ichimokuConversion = 9
	ichimokuBase       = 26
	ichimokuSpanB      = 52
)

// rollingMidpoint computes (max(high) + min(low)) / 2 over a trailing
// window. Rows without a full window are undefined.
func rollingMidpoint(high, low []float64, window int) []float64 {
	out := nanSlice(len(high))
	for i := window - 1; i < len(high); i++ {
		hi := high[i]
		lo := low[i]
		for j := i - window + 1; j < i; j++ {
			if high[j] > hi {
				hi = high[j]
			}
			if low[j] < lo {
				lo = low[j]
			}
		}
		out[i] = (hi + lo) / 2
	}
	return out
}

// applyIchimoku adds the five Ichimoku columns and classifies the cloud
// segments. Leading span A is the midpoint of the conversion and base
// lines; the forward projection is left to the renderer. The lagging span
// references close 26 rows ahead, undefined once that runs past the end of
// the series.
func applyIchimoku(s *model.Series) {
	n := s.Len()

	tenkan := rollingMidpoint(s.High, s.Low, ichimokuConversion)
	kijun := rollingMidpoint(s.High, s.Low, ichimokuBase)

	spanA := nanSlice(n)
	for i := range spanA {
		if model.Defined(tenkan[i]) && model.Defined(kijun[i]) {
			spanA[i] = (tenkan[i] + kijun[i]) / 2
		}
	}
	spanB := rollingMidpoint(s.High, s.Low, ichimokuSpanB)

	chikou := nanSlice(n)
	for i := 0; i+ichimokuBase < n; i++ {
		chikou[i] = s.Close[i+ichimokuBase]
	}

	s.SetColumn(ColTenkan, tenkan)
	s.SetColumn(ColKijun, kijun)
	s.SetColumn(ColSpanA, spanA)
	s.SetColumn(ColSpanB, spanB)
	s.SetColumn(ColChikou, chikou)
	s.Cloud = CloudSegments(spanA, spanB)
}

// CloudSegments classifies each adjacent pair of days: bullish when leading
// span A is above span B at both endpoints, bearish when below at both, and
// neutral otherwise (including crossovers inside the segment and undefined
// endpoints). Segment i covers days i-1..i; segment 0 is always neutral.
func CloudSegments(spanA, spanB []float64) []model.Tone {
	tones := make([]model.Tone, len(spanA))
	for i := 1; i < len(spanA); i++ {
		switch {
		case spanA[i] > spanB[i] && spanA[i-1] > spanB[i-1]:
			tones[i] = model.ToneBullish
		case spanA[i] < spanB[i] && spanA[i-1] < spanB[i-1]:
			tones[i] = model.ToneBearish
		}
	}
	return tones
}
