package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockCharter/internal/model"
)

// BarsAPIFetcher implements Fetcher against a generic bars REST API. Any
// backend exposing the /api/v1/bars/daily shape can serve as the provider.
type BarsAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBarsAPIFetcher creates a new fetcher with optional proxy support.
func NewBarsAPIFetcher(baseURL, apiKey, proxyURL string) *BarsAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BarsAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BarsAPIFetcher) Name() string { return "barsapi" }

// apiBar is the expected JSON shape from the bars API.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *BarsAPIFetcher) FetchDailyBars(symbol string, start, end time.Time) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&from=%d&to=%d",
		f.BaseURL, url.QueryEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var apiBars []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&apiBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	if len(apiBars) == 0 {
		return nil, fmt.Errorf("barsapi %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.Bar, len(apiBars))
	for i, ab := range apiBars {
		bars[i] = model.Bar{
			Date:   time.Unix(ab.Timestamp, 0).UTC().Truncate(24 * time.Hour),
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: ab.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupeDates(bars), nil
}
