// Package series builds the published KPI artifacts from assembled
// financial records: the annual time series, the latest valuation
// snapshot, and their on-disk persistence.
package series

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/valuescope/valuescope/internal/kpi"
	"github.com/valuescope/valuescope/internal/model"
)

// Hundreds of millions of yen is the dashboard display unit for balance
// amounts; records carry millions.
const millionsToOku = 100

// Builder derives per-entity series points. Annual records are selected
// by the entity's fiscal year-end suffix; interim periods never enter
// the published series.
type Builder struct {
	FiscalYearEnd string
}

// Annual filters to fiscal year-end records and sorts ascending by date.
// Dates are ISO strings, so lexical order is chronological order.
func (b *Builder) Annual(recs []model.FinancialRecord) []model.FinancialRecord {
	suffix := b.FiscalYearEnd
	var annual []model.FinancialRecord
	for _, rec := range recs {
		if rec.Date == model.UnknownDate {
			continue
		}
		if strings.HasSuffix(rec.Date, suffix) {
			annual = append(annual, rec)
		}
	}
	sort.Slice(annual, func(i, j int) bool { return annual[i].Date < annual[j].Date })
	return annual
}

// Point converts one annual record into a series point. price is the
// as-of closing price, nil when no valid observation exists; every
// market-derived field then stays nil.
func (b *Builder) Point(rec model.FinancialRecord, price *float64) model.SeriesPoint {
	m := kpi.Compute(rec)

	p := model.SeriesPoint{
		Date:                rec.Date,
		Year:                yearOf(rec.Date),
		ROE:                 round2(m.ROE),
		EquityRatio:         round2(m.EquityRatio),
		DSCR:                round2(m.DSCR),
		ROIC:                round2(m.ROIC),
		WACC:                round2(m.WACC),
		EBITDAMargin:        round2(m.EBITDAMargin),
		FCFMargin:           round2(m.FCFMargin),
		InterestBearingDebt: oku(rec.BS.InterestBearingDebt),
		CashAndDeposits:     oku(rec.BS.CashAndDeposits),
		NetDebt:             oku(m.NetDebt),
		OperatingCashFlow:   oku(rec.PL.OperatingCashFlow),
		EBITDA:              oku(rec.PL.EBITDA),
		NetIncome:           oku(rec.PL.NetIncome),
		Equity:              oku(rec.BS.Equity),
		StockPrice:          price,
	}

	if price == nil || rec.BS.IssuedShares <= 0 {
		return p
	}

	marketCap := kpi.MarketCap(*price, rec.BS.IssuedShares)
	v := kpi.ComputeValuation(rec, &marketCap)

	p.MarketCap = ptr(oku(marketCap))
	p.EnterpriseValue = ptr(oku(*v.EnterpriseValue))
	p.EVEBITDARatio = ptr(round2(*v.EVEBITDARatio))
	p.PER = ptr(round2(*v.PER))
	p.PBR = ptr(round2(*v.PBR))

	return p
}

// Snapshot derives the valuation entry for the latest annual record.
// Amounts stay in millions, unrounded; the time series, not the
// snapshot, carries the display rounding.
func (b *Builder) Snapshot(rec model.FinancialRecord, price *float64) model.Valuation {
	var marketCap *float64
	if price != nil && rec.BS.IssuedShares > 0 {
		mc := kpi.MarketCap(*price, rec.BS.IssuedShares)
		marketCap = &mc
	}
	return kpi.ComputeValuation(rec, marketCap)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func oku(millions float64) float64 {
	return math.Round(millions / millionsToOku)
}

func ptr(f float64) *float64 { return &f }
