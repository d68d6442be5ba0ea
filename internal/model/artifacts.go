package model

// TimeSeriesDoc is output artifact 1: per entity, the ordered annual KPI
// series (ascending by date).
type TimeSeriesDoc map[string][]SeriesPoint

// HasPayload reports whether any entity contributed at least one point.
func (d TimeSeriesDoc) HasPayload() bool {
	for _, points := range d {
		if len(points) > 0 {
			return true
		}
	}
	return false
}

// ValuationDoc is output artifact 2: the latest-annual-period valuation per
// entity, stamped with the build date.
type ValuationDoc struct {
	AsOf      string               `json:"asOf"`
	RunID     string               `json:"runId,omitempty"`
	Companies map[string]Valuation `json:"companies"`
}

// HasPayload reports whether any entity has a valuation entry.
func (d ValuationDoc) HasPayload() bool {
	return len(d.Companies) > 0
}

// ScoreValue is one KPI re-expressed against thresholds.
type ScoreValue struct {
	Value  float64 `json:"value"`
	Band   string  `json:"score"`
	Change float64 `json:"change"`
}

// ScoreEntry is the scorecard for one entity and one period label.
type ScoreEntry struct {
	Date        string                `json:"date"`
	CompanyCode string                `json:"companyCode"`
	Period      string                `json:"period"`
	KPIs        map[string]ScoreValue `json:"kpis"`
}

// ScorecardDoc is output artifact 3: per entity, a mapping from period
// label to its scorecard entry, plus a designated "latest" entry.
type ScorecardDoc struct {
	AsOf      string                           `json:"asOf"`
	Companies map[string]map[string]ScoreEntry `json:"companies"`
}

// HasPayload reports whether any entity has at least one scored period.
func (d ScorecardDoc) HasPayload() bool {
	for _, periods := range d.Companies {
		if len(periods) > 0 {
			return true
		}
	}
	return false
}
