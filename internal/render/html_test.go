package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockCharter/internal/calculator"
	"StockCharter/internal/model"
)

func demoSeries(t *testing.T) *model.Series {
	t.Helper()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 60)
	for i := range bars {
		c := 100 + float64(i%7)
		bars[i] = model.Bar{
			Date: base.AddDate(0, 0, i),
			Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: 5000,
		}
	}
	s, err := calculator.Apply(model.NewSeries("DEMO", bars), calculator.Names("MA20,RSI"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return s
}

func TestWriteDashboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.html")
	charts := []SymbolChart{
		{Symbol: "DEMO", Series: demoSeries(t), Indicators: []string{"MA20", "RSI"}},
		{Symbol: "BAD", Err: errors.New("fetch BAD: provider returned no data")},
	}

	if err := WriteDashboard(path, "test dashboard", charts); err != nil {
		t.Fatalf("WriteDashboard: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{"DEMO", "BAD", "polyline", "MA20", "RSI", "provider returned no data"} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	// Price line plus the MA20 overlay; RSI stays off-chart as a readout.
	if strings.Count(html, "<polyline") < 2 {
		t.Error("expected close and MA20 polylines")
	}
}
