package prices

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "prices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s
}

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSQLiteUpsertAndAsOf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "9501.T", []Observation{
		{Date: day("2024-03-26"), Close: 790},
		{Date: day("2024-03-28"), Close: 800},
		{Date: day("2024-04-01"), Close: 810},
	}))

	// Exact hit.
	obs, err := s.AsOf(ctx, "9501.T", day("2024-03-28"))
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.InDelta(t, 800, obs.Close, 0.001)

	// Weekend gap: most recent prior observation.
	obs, err = s.AsOf(ctx, "9501.T", day("2024-03-31"))
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.Equal(t, day("2024-03-28"), obs.Date)

	// Before the series: nothing.
	obs, err = s.AsOf(ctx, "9501.T", day("2024-03-01"))
	require.NoError(t, err)
	assert.Nil(t, obs)

	// Unknown symbol: nothing.
	obs, err = s.AsOf(ctx, "9999.T", day("2024-03-28"))
	require.NoError(t, err)
	assert.Nil(t, obs)
}

func TestSQLiteUpsertOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "9501.T", []Observation{{Date: day("2024-03-28"), Close: 800}}))
	require.NoError(t, s.Upsert(ctx, "9501.T", []Observation{{Date: day("2024-03-28"), Close: 805}}))

	obs, err := s.AsOf(ctx, "9501.T", day("2024-03-28"))
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.InDelta(t, 805, obs.Close, 0.001)
}

func TestSQLiteFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	obs, err := s.First(ctx, "9501.T")
	require.NoError(t, err)
	assert.Nil(t, obs)

	require.NoError(t, s.Upsert(ctx, "9501.T", []Observation{
		{Date: day("2024-03-28"), Close: 800},
		{Date: day("2020-01-06"), Close: 500},
	}))

	obs, err = s.First(ctx, "9501.T")
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.Equal(t, day("2020-01-06"), obs.Date)
}

func TestLookupSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "9501.T", []Observation{
		{Date: day("2024-03-10"), Close: 780},
		{Date: day("2024-03-28"), Close: 800},
	}))

	// Within the staleness window.
	price, err := Lookup(ctx, s, "9501.T", "2024-03-31", DefaultStalenessDays)
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.InDelta(t, 800, *price, 0.001)

	// 21 days past the last observation: stale, so no market data.
	price, err = Lookup(ctx, s, "9501.T", "2024-04-18", DefaultStalenessDays)
	require.NoError(t, err)
	assert.Nil(t, price)

	// Before the series starts: no market data.
	price, err = Lookup(ctx, s, "9501.T", "2024-03-01", DefaultStalenessDays)
	require.NoError(t, err)
	assert.Nil(t, price)

	// Empty symbol (entity without a listing): no market data.
	price, err = Lookup(ctx, s, "", "2024-03-31", DefaultStalenessDays)
	require.NoError(t, err)
	assert.Nil(t, price)

	// Undateable reporting date: no market data, not an error.
	price, err = Lookup(ctx, s, "9501.T", "unknown", DefaultStalenessDays)
	require.NoError(t, err)
	assert.Nil(t, price)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
}
