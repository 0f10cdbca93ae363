package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCharter/internal/model"
)

// makeSeries builds a daily series from close prices, with open/high/low
// derived around close.
func makeSeries(closes []float64) *model.Series {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   c - 1,
			High:   c + 2,
			Low:    c - 3,
			Close:  c,
			Volume: 1000 + float64(i)*100,
		}
	}
	return model.NewSeries("TEST", bars)
}

func seq(start, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(start + i)
	}
	return out
}

func TestApply_MAWarmup(t *testing.T) {
	s := makeSeries(seq(101, 10))
	out, err := Apply(s, []string{"MA50"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ma := out.ColumnValues(ColMA50)
	if len(ma) != 10 {
		t.Fatalf("expected 10 MA50 values, got %d", len(ma))
	}
	for i, v := range ma {
		if !model.Defined(v) {
			t.Fatalf("MA50[%d] undefined, expected expanding mean", i)
		}
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += out.Close[j]
		}
		want := sum / float64(i+1)
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("MA50[%d] = %.6f, want %.6f", i, v, want)
		}
	}
}

func TestApply_RollingWindow(t *testing.T) {
	s := makeSeries(seq(1, 30))
	out, err := Apply(s, []string{"MA20"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ma := out.ColumnValues(ColMA20)
	// Row 25: mean of closes 6..25 (1-indexed prices 7..26) = 16.5
	if math.Abs(ma[25]-16.5) > 1e-9 {
		t.Errorf("MA20[25] = %.6f, want 16.5", ma[25])
	}
}

func TestApply_UnknownIndicatorIgnored(t *testing.T) {
	s := makeSeries(seq(101, 10))
	out, err := Apply(s, []string{"FOO", "MA50"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.ColumnValues("FOO") != nil {
		t.Error("unexpected FOO column")
	}
	if out.ColumnValues(ColMA50) == nil {
		t.Error("MA50 column missing")
	}
	if len(out.Derived) != 1 {
		t.Errorf("expected 1 derived column, got %d", len(out.Derived))
	}
}

func TestApply_EndToEnd(t *testing.T) {
	s := makeSeries(seq(101, 10))
	out, err := Apply(s, Names("MA50,RSI"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	rsi := out.ColumnValues(ColRSI)
	if rsi == nil {
		t.Fatal("RSI column missing")
	}
	for i, v := range rsi {
		if !model.Defined(v) || v < 0 || v > 100 {
			t.Errorf("RSI[%d] = %v, want defined value in [0,100]", i, v)
		}
	}

	ma := out.ColumnValues(ColMA50)
	for i, v := range ma {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += s.Close[j]
		}
		if math.Abs(v-sum/float64(i+1)) > 1e-9 {
			t.Errorf("MA50[%d] = %.6f, want mean of close[0..%d]", i, v, i)
		}
	}

	// Original OHLCV columns unchanged, input series untouched.
	for i := range s.Close {
		if out.Close[i] != s.Close[i] || out.Volume[i] != s.Volume[i] {
			t.Fatalf("OHLCV row %d modified by Apply", i)
		}
	}
	if len(s.Derived) != 0 {
		t.Error("Apply mutated the input series")
	}
}

func TestApply_MissingColumn(t *testing.T) {
	s := makeSeries(seq(101, 10))
	s.Close = nil
	if _, err := Apply(s, []string{"MA50"}); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}

	s2 := makeSeries(seq(101, 10))
	s2.Volume = s2.Volume[:5]
	if _, err := Apply(s2, []string{"RSI"}); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for misaligned volume, got %v", err)
	}
}

func TestRSI_Bounds(t *testing.T) {
	// Rise, crash, chop: RSI must stay within [0,100] throughout.
	closes := append(seq(100, 20), 90, 80, 70, 75, 74, 76, 73, 77, 72, 78)
	rsi := rsiSeries(closes, 14)
	for i, v := range rsi {
		if !model.Defined(v) || v < 0 || v > 100 {
			t.Errorf("RSI[%d] = %v out of bounds", i, v)
		}
	}
	// Monotonic rise after the seed: RSI should read strongly overbought.
	if rsi[19] < 70 {
		t.Errorf("RSI[19] = %.2f, expected overbought reading on a straight rise", rsi[19])
	}
}

func TestRSI_FlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	rsi := rsiSeries(closes, 14)
	for i, v := range rsi {
		if v != 50 {
			t.Errorf("RSI[%d] = %.2f on flat series, want neutral 50", i, v)
		}
	}
}

func TestMACD_Warmup(t *testing.T) {
	s := makeSeries(seq(1, 60))
	out, err := Apply(s, []string{"MACD"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	macd := out.ColumnValues(ColMACD)
	// Long EMA defined from row 25, signal 9 rows later: row 33 onward.
	warmup := macdLongPeriod + macdSignalPeriod - 2
	for i := 0; i < warmup; i++ {
		if model.Defined(macd[i]) {
			t.Errorf("MACD[%d] defined inside warm-up window", i)
		}
	}
	for i := warmup; i < len(macd); i++ {
		if !model.Defined(macd[i]) {
			t.Errorf("MACD[%d] undefined after warm-up", i)
		}
	}
}

func TestMACD_ShortSeries(t *testing.T) {
	s := makeSeries(seq(1, 10))
	out, err := Apply(s, []string{"MACD"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	macd := out.ColumnValues(ColMACD)
	if len(macd) != 10 {
		t.Fatalf("MACD column misaligned: %d values", len(macd))
	}
	for i, v := range macd {
		if model.Defined(v) {
			t.Errorf("MACD[%d] defined on a series shorter than the long period", i)
		}
	}
}

func TestBollinger(t *testing.T) {
	s := makeSeries(seq(1, 40))
	out, err := Apply(s, []string{"BollingerBands"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	upper := out.ColumnValues(ColBBUpper)
	lower := out.ColumnValues(ColBBLower)
	middle := out.ColumnValues(ColBBMiddle)

	for i := 0; i < bbWindow-1; i++ {
		if model.Defined(middle[i]) {
			t.Errorf("BB_middle[%d] defined inside warm-up window", i)
		}
	}
	for i := bbWindow - 1; i < 40; i++ {
		if !model.Defined(middle[i]) {
			t.Fatalf("BB_middle[%d] undefined after warm-up", i)
		}
		if upper[i] < middle[i] || middle[i] < lower[i] {
			t.Errorf("band ordering violated at row %d: %v %v %v", i, upper[i], middle[i], lower[i])
		}
		sum := 0.0
		for j := i - bbWindow + 1; j <= i; j++ {
			sum += s.Close[j]
		}
		if math.Abs(middle[i]-sum/bbWindow) > 1e-9 {
			t.Errorf("BB_middle[%d] = %.6f, want 20-day mean", i, middle[i])
		}
	}
}

func TestBollinger_FlatSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	out, err := Apply(makeSeries(closes), []string{"BollingerBands"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	u := out.ColumnValues(ColBBUpper)
	l := out.ColumnValues(ColBBLower)
	if u[24] != 50 || l[24] != 50 {
		t.Errorf("flat series: bands should collapse onto the mean, got %v / %v", u[24], l[24])
	}
}

func TestIchimoku_Columns(t *testing.T) {
	s := makeSeries(seq(1, 80))
	out, err := Apply(s, []string{"Ichimoku"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	checks := []struct {
		col     string
		firstOK int
	}{
		{ColTenkan, ichimokuConversion - 1},
		{ColKijun, ichimokuBase - 1},
		{ColSpanA, ichimokuBase - 1},
		{ColSpanB, ichimokuSpanB - 1},
	}
	for _, c := range checks {
		values := out.ColumnValues(c.col)
		if len(values) != 80 {
			t.Fatalf("%s misaligned: %d values", c.col, len(values))
		}
		for i := 0; i < c.firstOK; i++ {
			if model.Defined(values[i]) {
				t.Errorf("%s[%d] defined inside warm-up window", c.col, i)
			}
		}
		for i := c.firstOK; i < 80; i++ {
			if !model.Defined(values[i]) {
				t.Errorf("%s[%d] undefined after warm-up", c.col, i)
			}
		}
	}

	// Lagging span: close shifted backward, undefined past the series end
	// rather than wrapped.
	chikou := out.ColumnValues(ColChikou)
	for i := 0; i < 80-ichimokuBase; i++ {
		if chikou[i] != out.Close[i+ichimokuBase] {
			t.Errorf("Chikou[%d] = %v, want close[%d]", i, chikou[i], i+ichimokuBase)
		}
	}
	for i := 80 - ichimokuBase; i < 80; i++ {
		if model.Defined(chikou[i]) {
			t.Errorf("Chikou[%d] defined past the series end", i)
		}
	}

	// Tenkan on a rising sequence: midpoint of 9-day high/low window.
	tenkan := out.ColumnValues(ColTenkan)
	// Row 10: highs are close+2 (max at row 10), lows close-3 (min at row 2).
	wantHi := s.Close[10] + 2
	wantLo := s.Close[2] - 3
	if math.Abs(tenkan[10]-(wantHi+wantLo)/2) > 1e-9 {
		t.Errorf("Tenkan[10] = %.4f, want %.4f", tenkan[10], (wantHi+wantLo)/2)
	}

	if len(out.Cloud) != 80 {
		t.Errorf("cloud tones misaligned: %d", len(out.Cloud))
	}
}

func TestCloudSegments(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name  string
		spanA []float64
		spanB []float64
		want  model.Tone
	}{
		{"bullish both endpoints", []float64{10, 11}, []float64{9, 9}, model.ToneBullish},
		{"bearish both endpoints", []float64{9, 9}, []float64{10, 11}, model.ToneBearish},
		{"crossover inside segment", []float64{10, 8}, []float64{9, 9}, model.ToneNeutral},
		{"reverse crossover", []float64{8, 10}, []float64{9, 9}, model.ToneNeutral},
		{"undefined endpoint", []float64{nan, 11}, []float64{9, 9}, model.ToneNeutral},
		{"touching is not bullish", []float64{10, 9}, []float64{9, 9}, model.ToneNeutral},
	}
	for _, tt := range tests {
		tones := CloudSegments(tt.spanA, tt.spanB)
		if len(tones) != 2 {
			t.Fatalf("%s: expected 2 tones, got %d", tt.name, len(tones))
		}
		if tones[0] != model.ToneNeutral {
			t.Errorf("%s: first segment must be neutral", tt.name)
		}
		if tones[1] != tt.want {
			t.Errorf("%s: tone = %v, want %v", tt.name, tones[1], tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"MA50,MA200", 2},
		{" MA50 , RSI ,", 2},
		{"", 0},
		{",,", 0},
	}
	for _, tt := range tests {
		if got := Names(tt.in); len(got) != tt.want {
			t.Errorf("Names(%q) = %v, want %d names", tt.in, got, tt.want)
		}
	}
}

func TestApply_OrderPreserved(t *testing.T) {
	s := makeSeries(seq(1, 30))
	out, err := Apply(s, Names("RSI,MA20,MACD"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []string{ColRSI, ColMA20, ColMACD}
	if len(out.Derived) != len(want) {
		t.Fatalf("expected %d derived columns, got %d", len(want), len(out.Derived))
	}
	for i, name := range want {
		if out.Derived[i].Name != name {
			t.Errorf("derived[%d] = %s, want %s", i, out.Derived[i].Name, name)
		}
	}
}
