package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() *ThresholdSet {
	return &ThresholdSet{
		Version: "1",
		Thresholds: []Threshold{
			{KPIName: "equityRatio", DisplayName: "Equity Ratio", Green: 30, Yellow: 20},
			{KPIName: "roe", DisplayName: "ROE", Green: 8, Yellow: 5},
			{KPIName: "wacc", DisplayName: "WACC", Green: 3, Yellow: 5, LowerIsBetter: true},
		},
	}
}

func TestBand(t *testing.T) {
	set := testSet()
	equityRatio, _ := set.Lookup("equityRatio")
	roe, _ := set.Lookup("roe")

	assert.Equal(t, BandGreen, equityRatio.Band(37.91))
	assert.Equal(t, BandYellow, equityRatio.Band(25))
	assert.Equal(t, BandRed, equityRatio.Band(15))

	// Boundary values earn the better band.
	assert.Equal(t, BandGreen, roe.Band(8))
	assert.Equal(t, BandYellow, roe.Band(5))
	assert.Equal(t, BandRed, roe.Band(4.99))
}

func TestBandLowerIsBetter(t *testing.T) {
	set := testSet()
	wacc, _ := set.Lookup("wacc")

	assert.Equal(t, BandGreen, wacc.Band(2.5))
	assert.Equal(t, BandYellow, wacc.Band(4.36))
	assert.Equal(t, BandRed, wacc.Band(5.01))
	assert.Equal(t, BandGreen, wacc.Band(3))
	assert.Equal(t, BandYellow, wacc.Band(5))
}

func TestEntry(t *testing.T) {
	e := &Evaluator{Set: testSet()}

	entry := e.Entry("2024-03-31", "E04498", PeriodAnnual,
		map[string]float64{"roe": 9.1, "wacc": 4.36},
		map[string]float64{"roe": 7.5},
	)

	assert.Equal(t, "2024-03-31", entry.Date)
	assert.Equal(t, PeriodAnnual, entry.Period)

	// Only KPIs present in the values map are scored.
	require.Len(t, entry.KPIs, 2)

	roe := entry.KPIs["roe"]
	assert.Equal(t, BandGreen, roe.Band)
	assert.InDelta(t, 1.6, roe.Change, 0.001)

	// No prior observation: zero change.
	wacc := entry.KPIs["wacc"]
	assert.Equal(t, BandYellow, wacc.Band)
	assert.Zero(t, wacc.Change)
}

func TestScorecardFirstPerPeriodWins(t *testing.T) {
	e := &Evaluator{Set: testSet()}

	periods := e.Scorecard("E04498", []Record{
		{Date: "2023-03-31", Values: map[string]float64{"roe": 6.0}},
		{Date: "2024-03-31", Values: map[string]float64{"roe": 9.0}},
		{Date: "2024-09-30", Values: map[string]float64{"roe": 4.0}},
	})

	// Two labels plus the latest alias.
	require.Len(t, periods, 3)

	annual := periods[PeriodAnnual]
	assert.Equal(t, "2024-03-31", annual.Date)
	// Change compares against the 2023 annual record.
	assert.InDelta(t, 3.0, annual.KPIs["roe"].Change, 0.001)

	q2 := periods[PeriodQ2]
	assert.Equal(t, "2024-09-30", q2.Date)

	// The annual entry is the designated latest.
	assert.Equal(t, annual, periods[LatestKey])
}

func TestScorecardLatestFallsBackToQ2(t *testing.T) {
	e := &Evaluator{Set: testSet()}

	periods := e.Scorecard("E04498", []Record{
		{Date: "2024-09-30", Values: map[string]float64{"roe": 6.0}},
		{Date: "2024-06-30", Values: map[string]float64{"roe": 5.0}},
	})

	assert.Equal(t, periods[PeriodQ2], periods[LatestKey])
}

func TestScorecardLatestFallsBackToNewest(t *testing.T) {
	e := &Evaluator{Set: testSet()}

	periods := e.Scorecard("E04498", []Record{
		{Date: "2024-06-30", Values: map[string]float64{"roe": 5.0}},
		{Date: "2024-12-31", Values: map[string]float64{"roe": 6.0}},
	})

	// Neither annual nor Q2: the newest record's label wins.
	assert.Equal(t, periods[PeriodQ3], periods[LatestKey])
}

func TestScorecardEmpty(t *testing.T) {
	e := &Evaluator{Set: testSet()}
	assert.Empty(t, e.Scorecard("E04498", nil))
}
