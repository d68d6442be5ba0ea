package model

// Metrics is the internal KPI result for one financial record. Every field
// follows the zero convention: a ratio whose preconditions are not met
// (zero or negative denominator) is 0.0, never an error. Percent-scaled
// fields carry the x100 already applied.
type Metrics struct {
	ROE          float64 // net income / equity, %
	EquityRatio  float64 // equity / total assets, %
	DSCR         float64 // operating CF / (current-portion debt + interest)
	ROIC         float64 // operating income / (equity + interest-bearing debt), %
	WACC         float64 // weighted cost of capital, %
	EBITDAMargin float64 // EBITDA / revenue, %
	FCFMargin    float64 // operating CF / revenue, %
	NetDebt      float64 // interest-bearing debt - cash, millions
}

// Valuation is the externally reported valuation result for one record.
// Market-derived fields follow the null convention: a pointer is nil when
// no valid price observation exists, and explicit in the serialized output
// otherwise. Ratios inside a priced record still degrade to 0 on a zero
// denominator, matching the internal convention at those call sites.
type Valuation struct {
	Date                string   `json:"date"`
	MarketCap           *float64 `json:"marketCap"`
	InterestBearingDebt float64  `json:"interestBearingDebt"`
	CashAndDeposits     float64  `json:"cashAndDeposits"`
	NetDebt             float64  `json:"netDebt"`
	EnterpriseValue     *float64 `json:"enterpriseValue"`
	EBITDA              float64  `json:"ebitda"`
	EVEBITDARatio       *float64 `json:"evEbitdaRatio"`
	NetIncome           float64  `json:"netIncome"`
	PER                 *float64 `json:"per"`
	Equity              float64  `json:"equity"`
	PBR                 *float64 `json:"pbr"`
	DividendYield       float64  `json:"dividendYield"`
	EPS                 float64  `json:"eps"`
	BPS                 float64  `json:"bps"`
}

// SeriesPoint is one annual KPI observation in the published time series.
// Ratios are percent (two decimals); balance amounts are in hundreds of
// millions of yen, matching the dashboard's display unit. Market-derived
// fields are nil when no valid price observation exists.
type SeriesPoint struct {
	Date                string   `json:"date"`
	Year                int      `json:"year"`
	ROE                 float64  `json:"roe"`
	EquityRatio         float64  `json:"equityRatio"`
	DSCR                float64  `json:"dscr"`
	ROIC                float64  `json:"roic"`
	WACC                float64  `json:"wacc"`
	EBITDAMargin        float64  `json:"ebitdaMargin"`
	FCFMargin           float64  `json:"fcfMargin"`
	InterestBearingDebt float64  `json:"interestBearingDebt"`
	CashAndDeposits     float64  `json:"cashAndDeposits"`
	NetDebt             float64  `json:"netDebt"`
	OperatingCashFlow   float64  `json:"operatingCashFlow"`
	EBITDA              float64  `json:"ebitda"`
	NetIncome           float64  `json:"netIncome"`
	Equity              float64  `json:"equity"`
	EnterpriseValue     *float64 `json:"enterpriseValue"`
	MarketCap           *float64 `json:"marketCap"`
	EVEBITDARatio       *float64 `json:"evEbitdaRatio"`
	PER                 *float64 `json:"per"`
	PBR                 *float64 `json:"pbr"`
	StockPrice          *float64 `json:"stockPrice"`
}
