package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"KrakenSandbox/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the trade journal to a SQLite database.
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

	// WAL lets the CLI read the journal while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite journal opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         TEXT PRIMARY KEY,
			pair       TEXT NOT NULL,
			side       TEXT NOT NULL,
			order_type TEXT NOT NULL,
			requested  REAL NOT NULL,
			amount     REAL NOT NULL,
			price      REAL NOT NULL,
			value      REAL NOT NULL,
			timestamp  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_pair ON trades(pair)`,

		`CREATE TABLE IF NOT EXISTS collections (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			pair       TEXT NOT NULL,
			interval_m INTEGER,
			candles    INTEGER,
			first_time INTEGER,
			last_time  INTEGER,
			last_close REAL,
			store_path TEXT,
			csv_path   TEXT,
			err_msg    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_ts ON collections(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(fill *model.Fill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(id, pair, side, order_type, requested, amount, price, value, timestamp)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		fill.ID, fill.Pair, string(fill.Side), model.OrderMarket,
		fill.Requested, fill.Amount, fill.Price, fill.Value,
		fill.Time.UnixMilli(),
	)
	return err
}

func (r *SQLiteRecorder) RecordCollection(evt *CollectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO collections
		(timestamp, pair, interval_m, candles, first_time, last_time, last_close, store_path, csv_path, err_msg)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Pair, evt.Interval, evt.Candles,
		evt.FirstTime, evt.LastTime, evt.LastClose,
		evt.StorePath, evt.CSVPath, evt.Err,
	)
	return err
}

// RecentTrades returns up to limit fills, newest first.
func (r *SQLiteRecorder) RecentTrades(limit int) ([]model.Fill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, pair, side, requested, amount, price, value, timestamp
		FROM trades ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fills []model.Fill
	for rows.Next() {
		var (
			f    model.Fill
			side string
			ms   int64
		)
		if err := rows.Scan(&f.ID, &f.Pair, &side, &f.Requested, &f.Amount, &f.Price, &f.Value, &ms); err != nil {
			return nil, err
		}
		f.Side = model.Side(side)
		f.Time = time.UnixMilli(ms)
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite journal")
	return r.db.Close()
}
