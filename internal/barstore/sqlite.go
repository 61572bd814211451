package barstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// SQLiteStore keeps daily bars in a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path and runs migrations.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, ttl: ttl, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bar_fetches (
			symbol     TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			days       INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT NOT NULL,
			day    INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, day)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	// databases created before the days column existed
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('bar_fetches') WHERE name = 'days'`,
	).Scan(&n); err != nil {
		return fmt.Errorf("inspect bar_fetches: %w", err)
	}
	if n == 0 {
		if _, err := s.db.Exec(`ALTER TABLE bar_fetches ADD COLUMN days INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add days column: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, symbol string) (*Entry, error) {
	var (
		source    string
		fetchedAt int64
		days      int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source, fetched_at, days FROM bar_fetches WHERE symbol = ?`, symbol,
	).Scan(&source, &fetchedAt, &days)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fetch: %w", err)
	}
	at := time.Unix(fetchedAt, 0)
	if s.ttl > 0 && s.now().Sub(at) > s.ttl {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT day, open, high, low, close, volume FROM daily_bars WHERE symbol = ? ORDER BY day`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	e := &Entry{Symbol: symbol, Source: source, FetchedAt: at, Days: days}
	for rows.Next() {
		var (
			day int64
			b   model.PriceBar
		)
		if err := rows.Scan(&day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(day, 0).UTC()
		e.Bars = append(e.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(e.Bars) == 0 {
		return nil, nil
	}
	return e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, symbol, source string, days int, bars model.PriceHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO daily_bars
		(symbol, day, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO bar_fetches (symbol, source, fetched_at, days) VALUES (?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET source = excluded.source, fetched_at = excluded.fetched_at, days = excluded.days`,
		symbol, source, s.now().Unix(), days); err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
