package prices

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path, configures WAL
// mode, and applies the schema.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "prices: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "prices: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "prices: migrate")
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS prices (
	symbol TEXT NOT NULL,
	date   TEXT NOT NULL,
	close  REAL NOT NULL,
	PRIMARY KEY (symbol, date)
);

CREATE INDEX IF NOT EXISTS idx_prices_symbol_date ON prices(symbol, date);
`

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Upsert(ctx context.Context, symbol string, obs []Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "prices: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO prices (symbol, date, close) VALUES (?, ?, ?)
		 ON CONFLICT(symbol, date) DO UPDATE SET close = excluded.close`)
	if err != nil {
		return eris.Wrap(err, "prices: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, symbol, o.Date.Format(DateLayout), o.Close); err != nil {
			return eris.Wrapf(err, "prices: upsert %s %s", symbol, o.Date.Format(DateLayout))
		}
	}

	return eris.Wrap(tx.Commit(), "prices: commit upsert")
}

func (s *SQLiteStore) AsOf(ctx context.Context, symbol string, target time.Time) (*Observation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, close FROM prices WHERE symbol = ? AND date <= ? ORDER BY date DESC LIMIT 1`,
		symbol, target.Format(DateLayout),
	)
	return scanObservation(row)
}

func (s *SQLiteStore) First(ctx context.Context, symbol string) (*Observation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, close FROM prices WHERE symbol = ? ORDER BY date ASC LIMIT 1`,
		symbol,
	)
	return scanObservation(row)
}

func scanObservation(row *sql.Row) (*Observation, error) {
	var date string
	var close float64
	if err := row.Scan(&date, &close); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "prices: scan observation")
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, eris.Wrapf(err, "prices: malformed stored date %q", date)
	}
	return &Observation{Date: d, Close: close}, nil
}
