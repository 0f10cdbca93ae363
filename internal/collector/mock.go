package collector

import (
	"time"

	"StockCharter/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.Bar
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, start, end time.Time) ([]model.Bar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	bars := m.Bars
	if bars == nil {
		bars = GenerateBars(m.Price, start, end)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

// GenerateBars produces a deterministic daily series covering [start, end],
// weekends included, drifting slightly around basePrice.
func GenerateBars(basePrice float64, start, end time.Time) []model.Bar {
	if basePrice == 0 {
		basePrice = 100
	}
	var bars []model.Bar
	day := start.UTC().Truncate(24 * time.Hour)
	last := end.UTC().Truncate(24 * time.Hour)
	for i := 0; !day.After(last); i++ {
		p := basePrice * (1 + float64(i%21-10)*0.002)
		bars = append(bars, model.Bar{
			Date:   day,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		day = day.AddDate(0, 0, 1)
	}
	return bars
}
