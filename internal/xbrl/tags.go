package xbrl

// Identical economic concepts are tagged under different names across
// filing vintages, so every semantic field the pipeline needs carries an
// ordered list of accepted tag variants. Resolution is a pure function
// over the harvested fact map: first non-zero variant wins, zero when the
// list is exhausted.

// Resolve returns the value of the first variant with a non-zero entry in
// facts, or 0 when none matches. Deterministic for a given map and list.
func Resolve(facts map[string]float64, variants ...string) float64 {
	for _, name := range variants {
		if v, ok := facts[name]; ok && v != 0 {
			return v
		}
	}
	return 0
}

// ResolveSum sums the non-zero variant values, for fields some filings
// report only as sub-components (e.g. current-portion bonds plus loans
// when no aggregate tag exists).
func ResolveSum(facts map[string]float64, variants ...string) float64 {
	var sum float64
	for _, name := range variants {
		sum += facts[name]
	}
	return sum
}

// Accepted tag variants per semantic field, in fallback order.
var (
	TagsIssuedShares = []string{
		"TotalNumberOfIssuedShares",
		"TotalNumberOfIssuedSharesSummaryOfBusinessResults",
		"NumberOfIssuedSharesAsOfFiscalYearEndIssuedSharesTotalNumberOfSharesEtc",
	}
	TagsCurrentPortionDebt = []string{"CurrentPortionOfNoncurrentLiabilities"}
	// Summed when no aggregate current-portion tag is present.
	TagsCurrentPortionDebtComponents = []string{
		"CurrentPortionOfBonds",
		"CurrentPortionOfLongTermLoansPayable",
	}
	TagsRevenue = []string{
		"ElectricUtilityOperatingRevenueELE",
		"NetSales",
		"OperatingRevenue1",
		"Revenue",
	}
	TagsOperatingIncome  = []string{"OperatingIncome"}
	TagsOrdinaryIncome   = []string{"OrdinaryIncome"}
	TagsInterestExpenses = []string{"InterestExpensesNOE", "InterestExpenses"}
	TagsNetIncome        = []string{"ProfitLoss", "ProfitLossAttributableToOwnersOfParent"}
	TagsDepreciation     = []string{"DepreciationAndAmortizationOpeCF", "DepreciationAndAmortization"}
	TagsOperatingCF      = []string{"NetCashProvidedByUsedInOperatingActivities"}

	TagsCurrentAssets         = []string{"CurrentAssets"}
	TagsNoncurrentAssets      = []string{"NoncurrentAssets"}
	TagsTotalAssets           = []string{"Assets"}
	TagsCurrentLiabilities    = []string{"CurrentLiabilities"}
	TagsNoncurrentLiabilities = []string{"NoncurrentLiabilities"}
	TagsTotalLiabilities      = []string{"Liabilities"}
	TagsEquity                = []string{"NetAssets"}
	TagsInterestBearingDebt   = []string{"BondsPayable"}
	TagsCashAndDeposits       = []string{"CashAndDeposits"}
)
