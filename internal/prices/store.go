// Package prices stores per-symbol daily closing prices and answers the
// as-of lookups the KPI layer joins against.
package prices

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultStalenessDays bounds how far back an as-of match may reach. A
// reporting date more than this many days past the nearest prior
// observation yields "no market data" rather than a stale join.
const DefaultStalenessDays = 10

// DateLayout is the canonical date format for stored observations.
const DateLayout = "2006-01-02"

// Observation is one (date, close) point of a price series.
type Observation struct {
	Date  time.Time
	Close float64
}

// Store persists price series. Implementations: SQLite (default, local
// cache) and Postgres (shared warehouse).
type Store interface {
	Upsert(ctx context.Context, symbol string, obs []Observation) error
	// AsOf returns the most recent observation at or before target, or
	// nil when none exists.
	AsOf(ctx context.Context, symbol string, target time.Time) (*Observation, error)
	// First returns the earliest observation for the symbol, or nil.
	First(ctx context.Context, symbol string) (*Observation, error)
	Close() error
}

// Open opens a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("prices: unknown driver %q", driver)
	}
}

// Lookup joins a reporting date against the symbol's series: most recent
// observation at or before the date, rejected when it precedes the
// series' first recorded date or exceeds the staleness window. A nil
// result means "no market data" and is not an error.
func Lookup(ctx context.Context, s Store, symbol, date string, stalenessDays int) (*float64, error) {
	if symbol == "" {
		return nil, nil
	}
	target, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, nil
	}

	first, err := s.First(ctx, symbol)
	if err != nil {
		return nil, eris.Wrap(err, "prices: first observation")
	}
	if first == nil || target.Before(first.Date) {
		return nil, nil
	}

	obs, err := s.AsOf(ctx, symbol, target)
	if err != nil {
		return nil, eris.Wrap(err, "prices: as-of lookup")
	}
	if obs == nil {
		return nil, nil
	}
	if target.Sub(obs.Date) > time.Duration(stalenessDays)*24*time.Hour {
		return nil, nil
	}

	close := obs.Close
	return &close, nil
}
