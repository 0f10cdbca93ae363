package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	recs := []*RunRecord{
		{
			Symbol:     "AAPL",
			Source:     "provider",
			Bars:       120,
			FirstDate:  time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
			LastDate:   time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
			LastClose:  193.97,
			Indicators: "MA50,RSI",
		},
		{Symbol: "BAD", Indicators: "MA50,RSI", Err: "provider returned no data"},
	}
	for _, rec := range recs {
		if err := r.RecordRun(rec); err != nil {
			t.Fatalf("RecordRun(%s): %v", rec.Symbol, err)
		}
	}

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM chart_runs").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 run rows, got %d", count)
	}

	var source, first string
	var lastClose float64
	err = r.db.QueryRow(
		"SELECT source, first_date, last_close FROM chart_runs WHERE symbol = ?", "AAPL",
	).Scan(&source, &first, &lastClose)
	if err != nil {
		t.Fatalf("query AAPL row: %v", err)
	}
	if source != "provider" || first != "2023-01-03" || lastClose != 193.97 {
		t.Errorf("unexpected AAPL row: %s %s %v", source, first, lastClose)
	}
}
