// Package model defines the data types shared across the extraction and
// derivation pipeline: filing statements, KPI results, and output artifacts.
package model

// UnknownDate is the sentinel reporting date used when no context of the
// requested kind exists in a filing.
const UnknownDate = "unknown"

// Filing is one regulator submission for one entity. It exists only for the
// duration of a single extraction pass; everything persistent is derived
// from it.
type Filing struct {
	EntityCode  string // EDINET code, e.g. "E04498"
	SubmitDate  string // YYYY-MM-DD
	DocTypeCode string // "120" = annual securities report
	DocID       string
	ArchivePath string
}

// BalanceSheet holds the instant-context statement fields for one filing.
// All amounts are in millions of yen; IssuedShares is a share count.
// Fields the filing does not tag are zero.
type BalanceSheet struct {
	Date                                  string  `json:"date"`
	CompanyCode                           string  `json:"companyCode"`
	CurrentAssets                         float64 `json:"currentAssets"`
	NoncurrentAssets                      float64 `json:"nonCurrentAssets"`
	TotalAssets                           float64 `json:"totalAssets"`
	CurrentLiabilities                    float64 `json:"currentLiabilities"`
	NoncurrentLiabilities                 float64 `json:"nonCurrentLiabilities"`
	TotalLiabilities                      float64 `json:"totalLiabilities"`
	Equity                                float64 `json:"equity"`
	InterestBearingDebt                   float64 `json:"interestBearingDebt"`
	CashAndDeposits                       float64 `json:"cashAndDeposits"`
	CurrentPortionOfNoncurrentLiabilities float64 `json:"currentPortionOfNoncurrentLiabilities"`
	IssuedShares                          float64 `json:"issuedShares"`
}

// IncomeStatement holds the duration-context statement fields for one filing,
// in millions of yen. EBITDA is derived (operating income + depreciation),
// never tag-sourced.
type IncomeStatement struct {
	Date              string  `json:"date"`
	CompanyCode       string  `json:"companyCode"`
	Revenue           float64 `json:"revenue"`
	OperatingIncome   float64 `json:"operatingIncome"`
	OrdinaryIncome    float64 `json:"ordinaryIncome"`
	InterestExpenses  float64 `json:"interestExpenses"`
	NetIncome         float64 `json:"netIncome"`
	Depreciation      float64 `json:"depreciation"`
	OperatingCashFlow float64 `json:"operatingCashFlow"`
	EBITDA            float64 `json:"ebitda"`
}

// CashFlowStatement keeps cash-flow concepts as a free-form map because CF
// taxonomy naming is the least standardized across filing vintages.
type CashFlowStatement struct {
	Date        string             `json:"date"`
	CompanyCode string             `json:"companyCode"`
	Items       map[string]float64 `json:"items"`
}

// FinancialRecord pairs the statements of a single filing under one
// reporting date. Date is the balance-sheet (instant) date.
type FinancialRecord struct {
	Date string            `json:"date"`
	BS   BalanceSheet      `json:"bs"`
	PL   IncomeStatement   `json:"pl"`
	CF   CashFlowStatement `json:"cf"`
}
