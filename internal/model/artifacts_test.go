package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSeriesDocHasPayload(t *testing.T) {
	assert.False(t, TimeSeriesDoc{}.HasPayload())
	assert.False(t, TimeSeriesDoc{"TEPCO": nil}.HasPayload())
	assert.True(t, TimeSeriesDoc{"TEPCO": {{Date: "2024-03-31"}}}.HasPayload())
}

func TestValuationDocHasPayload(t *testing.T) {
	assert.False(t, ValuationDoc{AsOf: "2025-09-01"}.HasPayload())
	assert.True(t, ValuationDoc{
		Companies: map[string]Valuation{"TEPCO": {Date: "2024-03-31"}},
	}.HasPayload())
}

func TestScorecardDocHasPayload(t *testing.T) {
	assert.False(t, ScorecardDoc{}.HasPayload())
	assert.False(t, ScorecardDoc{
		Companies: map[string]map[string]ScoreEntry{"TEPCO": {}},
	}.HasPayload())
	assert.True(t, ScorecardDoc{
		Companies: map[string]map[string]ScoreEntry{
			"TEPCO": {"Annual": {Date: "2024-03-31"}},
		},
	}.HasPayload())
}
