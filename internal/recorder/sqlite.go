package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers can query while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			source     TEXT,
			bars       INTEGER,
			first_date TEXT,
			last_date  TEXT,
			last_close REAL,
			indicators TEXT,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON chart_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON chart_runs(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first, last string
	if !rec.FirstDate.IsZero() {
		first = rec.FirstDate.Format("2006-01-02")
	}
	if !rec.LastDate.IsZero() {
		last = rec.LastDate.Format("2006-01-02")
	}

	_, err := r.db.Exec(`INSERT INTO chart_runs
		(timestamp, symbol, source, bars, first_date, last_date, last_close, indicators, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.Source, rec.Bars,
		first, last, rec.LastClose, rec.Indicators, rec.Err,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
