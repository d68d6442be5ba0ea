// Package kpi computes derived ratios and valuation figures from assembled
// statement records.
//
// Two result shapes exist on purpose. Metrics is the internal-use result:
// a ratio with an unmet precondition (zero or negative denominator) is
// 0.0. Valuation is the externally serialized result: market-derived
// fields are nil when no valid price observation exists. Consumers depend
// on both conventions, so they are never unified.
package kpi

import "github.com/valuescope/valuescope/internal/model"

// Fixed assumptions for the cost-of-capital figures. The pipeline does not
// estimate betas or look up market rates; these are the agreed scorecard
// constants.
const (
	CostOfEquityPct = 6.0
	TaxRate         = 0.30
)

const sharesToMillions = 1_000_000

// Compute derives the internal KPI set for one financial record. Pure
// function; no market data involved.
func Compute(rec model.FinancialRecord) model.Metrics {
	bs, pl := rec.BS, rec.PL

	var m model.Metrics

	if bs.Equity > 0 {
		m.ROE = pl.NetIncome / bs.Equity * 100
	}
	if bs.TotalAssets > 0 {
		m.EquityRatio = bs.Equity / bs.TotalAssets * 100
	}

	debtService := bs.CurrentPortionOfNoncurrentLiabilities + pl.InterestExpenses
	if debtService > 0 {
		m.DSCR = pl.OperatingCashFlow / debtService
	}

	investedCapital := bs.Equity + bs.InterestBearingDebt
	if investedCapital > 0 {
		m.ROIC = pl.OperatingIncome / investedCapital * 100
	}
	m.WACC = wacc(bs.Equity, bs.InterestBearingDebt, pl.InterestExpenses)

	if pl.Revenue > 0 {
		m.EBITDAMargin = pl.EBITDA / pl.Revenue * 100
		m.FCFMargin = pl.OperatingCashFlow / pl.Revenue * 100
	}

	m.NetDebt = bs.InterestBearingDebt - bs.CashAndDeposits

	return m
}

// wacc weights a fixed cost of equity against the observed cost of debt
// (interest expenses over interest-bearing debt), tax-shielded at the
// fixed rate.
func wacc(equity, debt, interestExpenses float64) float64 {
	capital := equity + debt
	if capital <= 0 {
		return 0
	}
	equityWeight := equity / capital
	debtWeight := debt / capital

	var costOfDebt float64
	if debt > 0 {
		costOfDebt = interestExpenses / debt * 100
	}

	return equityWeight*CostOfEquityPct + debtWeight*costOfDebt*(1-TaxRate)
}

// MarketCap converts a closing price and issued share count to a market
// capitalization in millions of yen.
func MarketCap(price, issuedShares float64) float64 {
	return price * issuedShares / sharesToMillions
}

// ComputeValuation derives the externally reported valuation record.
// marketCap is nil when the record has no valid price observation or no
// issued share count; every market-derived field then stays nil ("no
// market data"), which is not an error. Inside a priced record, ratios
// with a non-positive denominator degrade to 0, matching the historical
// call-site convention.
func ComputeValuation(rec model.FinancialRecord, marketCap *float64) model.Valuation {
	bs, pl := rec.BS, rec.PL
	netDebt := bs.InterestBearingDebt - bs.CashAndDeposits

	v := model.Valuation{
		Date:                rec.Date,
		MarketCap:           marketCap,
		InterestBearingDebt: bs.InterestBearingDebt,
		CashAndDeposits:     bs.CashAndDeposits,
		NetDebt:             netDebt,
		EBITDA:              pl.EBITDA,
		NetIncome:           pl.NetIncome,
		Equity:              bs.Equity,
	}

	// Per-share figures need only the share count, not a price.
	if bs.IssuedShares > 0 {
		v.EPS = pl.NetIncome * sharesToMillions / bs.IssuedShares
		v.BPS = bs.Equity * sharesToMillions / bs.IssuedShares
	}

	if marketCap == nil {
		return v
	}

	ev := *marketCap + netDebt
	v.EnterpriseValue = &ev
	v.EVEBITDARatio = ptr(guardedDiv(ev, pl.EBITDA))
	v.PER = ptr(guardedDiv(*marketCap, pl.NetIncome))
	v.PBR = ptr(guardedDiv(*marketCap, bs.Equity))

	return v
}

func guardedDiv(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

func ptr(f float64) *float64 { return &f }
