// Package statement assembles normalized balance-sheet, income-statement,
// and cash-flow records from parsed filing documents.
package statement

import (
	"go.uber.org/zap"

	"github.com/rotisserie/eris"

	"github.com/valuescope/valuescope/internal/model"
	"github.com/valuescope/valuescope/internal/xbrl"
)

// Stage names the steps a filing passes through. A filing that cannot
// complete a stage fails terminally and is skipped; failures here are
// structural (bad input), never transient, so there are no retries.
type Stage string

const (
	StageArchived   Stage = "archived"
	StageNamespaces Stage = "namespace-resolved"
	StageDates      Stage = "dates-resolved"
	StageFacts      Stage = "facts-extracted"
	StageFields     Stage = "fields-resolved"
	StageAssembled  Stage = "assembled"
)

const yenToMillions = 1_000_000

// Assembler turns one filing instance document into a FinancialRecord.
type Assembler struct {
	// FiscalYearEnd is the entity's year-end date suffix, e.g. "-03-31".
	FiscalYearEnd string
}

// Assemble parses the instance document at path and assembles the three
// statement records for the given entity. An error means the filing is
// structurally unusable and must be skipped; sibling filings are
// unaffected.
func (a *Assembler) Assemble(path, entityCode string) (*model.FinancialRecord, error) {
	doc, err := xbrl.ParseFile(path)
	if err != nil {
		return nil, stageErr(StageArchived, err)
	}

	namespaces := xbrl.ResolveNamespaces(doc)
	if len(namespaces) == 0 {
		// Fails soft: no taxonomy means zero facts downstream, but the
		// document itself was parseable. Still nothing to assemble.
		return nil, stageErr(StageNamespaces, eris.New("no taxonomy namespace declared"))
	}

	bsDate := xbrl.ResolveReportingDate(doc.Contexts, xbrl.KindInstant, a.FiscalYearEnd)
	plDate := xbrl.ResolveReportingDate(doc.Contexts, xbrl.KindDuration, a.FiscalYearEnd)
	if bsDate == model.UnknownDate && plDate == model.UnknownDate {
		return nil, stageErr(StageDates, eris.New("no dateable context"))
	}

	instant := xbrl.HarvestRaw(doc, namespaces, xbrl.KindInstant)
	duration := xbrl.HarvestRaw(doc, namespaces, xbrl.KindDuration)
	if len(instant) == 0 && len(duration) == 0 {
		return nil, stageErr(StageFacts, eris.New("no numeric facts"))
	}

	bs := assembleBalanceSheet(instant, entityCode, bsDate)
	pl := assembleIncomeStatement(duration, entityCode, plDate)
	cf := model.CashFlowStatement{
		Date:        plDate,
		CompanyCode: entityCode,
		Items:       xbrl.HarvestKeyword(doc, namespaces, xbrl.KindDuration, xbrl.CashFlowKeywords),
	}

	recordDate := bsDate
	if recordDate == model.UnknownDate {
		recordDate = plDate
	}

	zap.L().Debug("statement: filing assembled",
		zap.String("entity", entityCode),
		zap.String("date", recordDate),
		zap.Int("instant_facts", len(instant)),
		zap.Int("duration_facts", len(duration)),
		zap.Int("cf_items", len(cf.Items)),
		zap.String("stage", string(StageAssembled)),
	)

	return &model.FinancialRecord{Date: recordDate, BS: bs, PL: pl, CF: cf}, nil
}

func assembleBalanceSheet(facts map[string]float64, entityCode, date string) model.BalanceSheet {
	currentPortion := xbrl.Resolve(facts, xbrl.TagsCurrentPortionDebt...)
	if currentPortion == 0 {
		currentPortion = xbrl.ResolveSum(facts, xbrl.TagsCurrentPortionDebtComponents...)
	}

	return model.BalanceSheet{
		Date:                                  date,
		CompanyCode:                           entityCode,
		CurrentAssets:                         millions(xbrl.Resolve(facts, xbrl.TagsCurrentAssets...)),
		NoncurrentAssets:                      millions(xbrl.Resolve(facts, xbrl.TagsNoncurrentAssets...)),
		TotalAssets:                           millions(xbrl.Resolve(facts, xbrl.TagsTotalAssets...)),
		CurrentLiabilities:                    millions(xbrl.Resolve(facts, xbrl.TagsCurrentLiabilities...)),
		NoncurrentLiabilities:                 millions(xbrl.Resolve(facts, xbrl.TagsNoncurrentLiabilities...)),
		TotalLiabilities:                      millions(xbrl.Resolve(facts, xbrl.TagsTotalLiabilities...)),
		Equity:                                millions(xbrl.Resolve(facts, xbrl.TagsEquity...)),
		InterestBearingDebt:                   millions(xbrl.Resolve(facts, xbrl.TagsInterestBearingDebt...)),
		CashAndDeposits:                       millions(xbrl.Resolve(facts, xbrl.TagsCashAndDeposits...)),
		CurrentPortionOfNoncurrentLiabilities: millions(currentPortion),
		// Share count, not yen: stays unscaled.
		IssuedShares: xbrl.Resolve(facts, xbrl.TagsIssuedShares...),
	}
}

func assembleIncomeStatement(facts map[string]float64, entityCode, date string) model.IncomeStatement {
	operatingIncome := millions(xbrl.Resolve(facts, xbrl.TagsOperatingIncome...))
	depreciation := millions(xbrl.Resolve(facts, xbrl.TagsDepreciation...))

	return model.IncomeStatement{
		Date:              date,
		CompanyCode:       entityCode,
		Revenue:           millions(xbrl.Resolve(facts, xbrl.TagsRevenue...)),
		OperatingIncome:   operatingIncome,
		OrdinaryIncome:    millions(xbrl.Resolve(facts, xbrl.TagsOrdinaryIncome...)),
		InterestExpenses:  millions(xbrl.Resolve(facts, xbrl.TagsInterestExpenses...)),
		NetIncome:         millions(xbrl.Resolve(facts, xbrl.TagsNetIncome...)),
		Depreciation:      depreciation,
		OperatingCashFlow: millions(xbrl.Resolve(facts, xbrl.TagsOperatingCF...)),
		EBITDA:            operatingIncome + depreciation,
	}
}

func millions(rawYen float64) float64 {
	return rawYen / yenToMillions
}

func stageErr(stage Stage, err error) error {
	return eris.Wrapf(err, "statement: extraction failed at %s", stage)
}
