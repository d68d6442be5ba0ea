package xbrl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFirstNonZeroWins(t *testing.T) {
	facts := map[string]float64{
		"ElectricUtilityOperatingRevenueELE": 6_918_389,
		"NetSales":                           5_000_000,
	}
	assert.InDelta(t, 6_918_389, Resolve(facts, TagsRevenue...), 0.001)
}

func TestResolveSkipsZeroEntries(t *testing.T) {
	facts := map[string]float64{
		"ElectricUtilityOperatingRevenueELE": 0,
		"NetSales":                           5_000_000,
	}
	assert.InDelta(t, 5_000_000, Resolve(facts, TagsRevenue...), 0.001)
}

func TestResolveExhausted(t *testing.T) {
	assert.Zero(t, Resolve(map[string]float64{"Unrelated": 1}, TagsRevenue...))
	assert.Zero(t, Resolve(nil, TagsRevenue...))
}

func TestResolveDeterministic(t *testing.T) {
	facts := map[string]float64{
		"ProfitLoss":                             150_000,
		"ProfitLossAttributableToOwnersOfParent": 140_000,
	}
	for range 10 {
		assert.InDelta(t, 150_000, Resolve(facts, TagsNetIncome...), 0.001)
	}
}

func TestResolveSum(t *testing.T) {
	facts := map[string]float64{
		"CurrentPortionOfBonds":                150_000_000,
		"CurrentPortionOfLongTermLoansPayable": 250_000_000,
	}
	assert.InDelta(t, 400_000_000, ResolveSum(facts, TagsCurrentPortionDebtComponents...), 0.001)

	// Missing components contribute nothing.
	delete(facts, "CurrentPortionOfBonds")
	assert.InDelta(t, 250_000_000, ResolveSum(facts, TagsCurrentPortionDebtComponents...), 0.001)
}
