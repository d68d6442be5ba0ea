package prices

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool Querier
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS prices (
	symbol TEXT NOT NULL,
	date   DATE NOT NULL,
	close  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (symbol, date)
)`

// NewPostgres connects to the given DSN and applies the schema.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "prices: connect postgres")
	}
	s := &PostgresStore{pool: pool}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "prices: migrate postgres")
	}
	return s, nil
}

// NewPostgresFromPool wraps an existing pool (used by tests).
func NewPostgresFromPool(pool Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, symbol string, obs []Observation) error {
	for _, o := range obs {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO prices (symbol, date, close) VALUES ($1, $2, $3)
			 ON CONFLICT (symbol, date) DO UPDATE SET close = EXCLUDED.close`,
			symbol, o.Date.Format(DateLayout), o.Close,
		)
		if err != nil {
			return eris.Wrapf(err, "prices: upsert %s %s", symbol, o.Date.Format(DateLayout))
		}
	}
	return nil
}

func (s *PostgresStore) AsOf(ctx context.Context, symbol string, target time.Time) (*Observation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT date, close FROM prices WHERE symbol = $1 AND date <= $2 ORDER BY date DESC LIMIT 1`,
		symbol, target.Format(DateLayout),
	)
	return scanPgObservation(row)
}

func (s *PostgresStore) First(ctx context.Context, symbol string) (*Observation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT date, close FROM prices WHERE symbol = $1 ORDER BY date ASC LIMIT 1`,
		symbol,
	)
	return scanPgObservation(row)
}

func scanPgObservation(row pgx.Row) (*Observation, error) {
	var date time.Time
	var close float64
	if err := row.Scan(&date, &close); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "prices: scan observation")
	}
	return &Observation{Date: date, Close: close}, nil
}
