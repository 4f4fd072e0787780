package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SqueezeScan/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
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

	// WAL mode for better concurrent read performance (dashboards read while
	// the scanner writes).
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
		`CREATE TABLE IF NOT EXISTS scans (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			symbols     INTEGER,
			results     INTEGER,
			errors      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at)`,

		`CREATE TABLE IF NOT EXISTS contraction_results (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id            TEXT NOT NULL,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT NOT NULL,
			period             INTEGER NOT NULL,
			price              REAL,
			change_percent     REAL,
			volume             REAL,
			atr                REAL,
			score              REAL,
			level              TEXT,
			squeeze_status     TEXT,
			bandwidth_percent  REAL,
			contraction_percent REAL,
			net_move_percent   REAL,
			price_in_range     REAL,
			qualifies          INTEGER,
			fail_reason        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_scan ON contraction_results(scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON contraction_results(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(rec *ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scans
		(id, started_at, finished_at, symbols, results, errors)
		VALUES (?,?,?,?,?,?)`,
		rec.ID, rec.StartedAt.Unix(), rec.FinishedAt.Unix(),
		rec.Symbols, rec.Results, rec.Errors,
	)
	return err
}

func (r *SQLiteRecorder) RecordResult(scanID string, res *model.ContractionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	qualifies := 0
	if res.Pivot.Qualifies {
		qualifies = 1
	}
	_, err := r.db.Exec(`INSERT INTO contraction_results
		(scan_id, timestamp, symbol, period, price, change_percent, volume,
		 atr, score, level, squeeze_status, bandwidth_percent,
		 contraction_percent, net_move_percent, price_in_range, qualifies, fail_reason)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		scanID, time.Now().Unix(), res.Symbol, res.Period,
		res.CurrentPrice, res.ChangePercent, res.CurrentVolume,
		res.ATR, res.ContractionScore, string(res.Level),
		string(res.SqueezeStatus), res.BandwidthPercent,
		res.Pivot.ContractionPercent, res.Pivot.NetMovePercent,
		res.Pivot.PriceInRange, qualifies, res.Pivot.FailReason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
