package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StockCharter/internal/collector"
	"StockCharter/internal/model"
)

// DefaultRefreshInterval is how long a persisted entry stays fresh. The
// check is wall-clock based, not trading-calendar based: a Friday-evening
// fetch is fresh through the weekend.
const DefaultRefreshInterval = 3 * time.Hour

// ErrCorruptEntry indicates a persisted entry exists but cannot be parsed.
// The store recovers by treating it as a miss and refetching.
var ErrCorruptEntry = errors.New("cache entry unreadable")

// Origin reports where a returned series came from.
type Origin string

const (
	OriginCache    Origin = "cache"
	OriginProvider Origin = "provider"
)

// Entry is the persisted per-symbol snapshot. The save timestamp is stored
// inside the entry rather than relying on file modification time, and the
// fetched start date is recorded so a hit that does not cover a request's
// range can be rejected.
type Entry struct {
	Symbol  string      `json:"symbol"`
	SavedAt time.Time   `json:"saved_at"`
	Start   time.Time   `json:"start"`
	Bars    []model.Bar `json:"bars"`
}

// Store is a file-backed OHLCV series cache, one entry per symbol, backed
// by an upstream Fetcher. Entries for distinct symbols are disjoint files,
// so concurrent per-symbol use needs no locking.
type Store struct {
	Dir     string
	Refresh time.Duration
	Fetcher collector.Fetcher
}

// NewStore creates a Store. A non-positive refresh interval falls back to
// the default 3 hours.
func NewStore(dir string, refresh time.Duration, fetcher collector.Fetcher) *Store {
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	return &Store{Dir: dir, Refresh: refresh, Fetcher: fetcher}
}

// Get returns the daily series for symbol covering [start, asOf]. A fresh
// persisted entry that covers the requested start is returned directly;
// otherwise the provider is called and the result overwrites the entry
// along with its timestamp. Symbols are case-insensitive and stored
// uppercase.
func (st *Store) Get(symbol string, start, asOf time.Time) (*model.Series, Origin, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, "", errors.New("empty symbol")
	}
	if start.After(asOf) {
		return nil, "", fmt.Errorf("start date %s is after as-of time %s",
			start.Format("2006-01-02"), asOf.Format(time.RFC3339))
	}
	if err := os.MkdirAll(st.Dir, 0755); err != nil {
		return nil, "", fmt.Errorf("create cache dir: %w", err)
	}

	path := st.entryPath(symbol)
	if ent, err := readEntry(path); err == nil {
		if asOf.Sub(ent.SavedAt) < st.Refresh && !ent.Start.After(start) {
			s := model.NewSeries(symbol, ent.Bars)
			if verr := s.Validate(); verr == nil {
				return s, OriginCache, nil
			}
			log.Printf("[WARN] cache entry for %s violates series invariants, refetching", symbol)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] cache entry for %s unreadable, refetching: %v", symbol, err)
	}

	bars, err := st.Fetcher.FetchDailyBars(symbol, start, asOf)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", symbol, err)
	}
	s := model.NewSeries(symbol, bars)
	if err := s.Validate(); err != nil {
		return nil, "", fmt.Errorf("provider series: %w", err)
	}
	if err := writeEntry(path, &Entry{
		Symbol:  symbol,
		SavedAt: asOf,
		Start:   start,
		Bars:    bars,
	}); err != nil {
		return nil, "", fmt.Errorf("persist %s: %w", symbol, err)
	}
	return s, OriginProvider, nil
}

func (st *Store) entryPath(symbol string) string {
	return filepath.Join(st.Dir, symbol+".json")
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ent Entry
	if err := json.Unmarshal(data, &ent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if ent.SavedAt.IsZero() || len(ent.Bars) == 0 {
		return nil, fmt.Errorf("%w: missing saved_at or bars", ErrCorruptEntry)
	}
	return &ent, nil
}

// writeEntry persists atomically via temp file + rename so a concurrent
// reader never observes a partially written entry.
func writeEntry(path string, ent *Entry) error {
	data, err := json.MarshalIndent(ent, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
