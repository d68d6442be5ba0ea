package scorecard

import (
	"sort"

	"github.com/valuescope/valuescope/internal/model"
)

// Band labels.
const (
	BandGreen  = "green"
	BandYellow = "yellow"
	BandRed    = "red"
)

// LatestKey is the alias under which the most representative period's
// entry is duplicated.
const LatestKey = "latest"

// Band places a value into a traffic-light band. Boundary values earn
// the better band.
func (t Threshold) Band(value float64) string {
	if t.LowerIsBetter {
		switch {
		case value <= t.Green:
			return BandGreen
		case value <= t.Yellow:
			return BandYellow
		default:
			return BandRed
		}
	}
	switch {
	case value >= t.Green:
		return BandGreen
	case value >= t.Yellow:
		return BandYellow
	default:
		return BandRed
	}
}

// Record is one scored observation: a reporting date and the KPI values
// to evaluate, keyed by threshold kpiName.
type Record struct {
	Date   string
	Values map[string]float64
}

// Evaluator scores entity records against a threshold set.
type Evaluator struct {
	Set *ThresholdSet
}

// Entry scores one record. prior holds the same KPIs from the previous
// observation of the same period, for the change column; a KPI absent
// from prior reports zero change.
func (e *Evaluator) Entry(date, companyCode, period string, values, prior map[string]float64) model.ScoreEntry {
	kpis := make(map[string]model.ScoreValue, len(e.Set.Thresholds))
	for _, t := range e.Set.Thresholds {
		value, ok := values[t.KPIName]
		if !ok {
			continue
		}
		sv := model.ScoreValue{Value: value, Band: t.Band(value)}
		if prev, ok := prior[t.KPIName]; ok {
			sv.Change = value - prev
		}
		kpis[t.KPIName] = sv
	}
	return model.ScoreEntry{
		Date:        date,
		CompanyCode: companyCode,
		Period:      period,
		KPIs:        kpis,
	}
}

// Scorecard assembles the per-period entries for one entity. Records are
// considered newest first and the first record seen for each period
// label wins; the change column compares against the next older record
// with the same label. The most representative period is duplicated
// under the "latest" key: the annual entry when present, else the
// half-year entry, else the newest entry of any label.
func (e *Evaluator) Scorecard(companyCode string, recs []Record) map[string]model.ScoreEntry {
	ordered := make([]Record, len(recs))
	copy(ordered, recs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date > ordered[j].Date })

	periods := make(map[string]model.ScoreEntry)
	var firstLabel string
	for i, rec := range ordered {
		if rec.Date == model.UnknownDate {
			continue
		}
		label := PeriodLabel(rec.Date)
		if _, seen := periods[label]; seen {
			continue
		}
		if firstLabel == "" {
			firstLabel = label
		}
		periods[label] = e.Entry(rec.Date, companyCode, label, rec.Values, priorValues(ordered[i+1:], label))
	}

	if len(periods) == 0 {
		return periods
	}

	for _, label := range []string{PeriodAnnual, PeriodQ2, firstLabel} {
		if entry, ok := periods[label]; ok {
			periods[LatestKey] = entry
			break
		}
	}
	return periods
}

// priorValues finds the values of the next older record carrying the
// same period label.
func priorValues(older []Record, label string) map[string]float64 {
	for _, rec := range older {
		if rec.Date == model.UnknownDate {
			continue
		}
		if PeriodLabel(rec.Date) == label {
			return rec.Values
		}
	}
	return nil
}
