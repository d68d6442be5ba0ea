package xbrl

import (
	"strings"

	"github.com/valuescope/valuescope/internal/model"
)

// ContextKind selects which context period field a resolution or harvest
// pass reads: point-in-time (balance sheet) or period end (income and
// cash flow). KindAll disables context filtering during fact harvest.
type ContextKind string

const (
	KindInstant  ContextKind = "Instant"
	KindDuration ContextKind = "Duration"
	KindAll      ContextKind = "All"
)

// ResolveReportingDate determines the single representative reporting date
// for the given context kind.
//
// Priority: a context whose id carries the current-year marker wins
// outright; otherwise dates falling on the fiscal year-end (suffix match,
// e.g. "-03-31") are preferred, most recent first; otherwise the most
// recent date of any context. Filings declare dozens of contexts (prior
// year, cumulative, per-segment) and id naming conventions drift across
// years, so the year-end date is the robust fallback.
//
// Returns model.UnknownDate when no context of the kind exists.
func ResolveReportingDate(contexts []Context, kind ContextKind, fyEndSuffix string) string {
	var candidates []string

	for _, ctx := range contexts {
		var date string
		switch kind {
		case KindInstant:
			date = ctx.Instant
			if date == "" {
				continue
			}
			if strings.Contains(ctx.ID, "CurrentYearInstant") || strings.Contains(ctx.ID, "CurrentYearEnd") {
				return date
			}
		case KindDuration:
			date = ctx.EndDate
			if date == "" {
				continue
			}
			if strings.Contains(ctx.ID, "CurrentYear") {
				return date
			}
		default:
			continue
		}
		candidates = append(candidates, date)
	}

	var fiscalEnds []string
	for _, d := range candidates {
		if strings.HasSuffix(d, fyEndSuffix) {
			fiscalEnds = append(fiscalEnds, d)
		}
	}

	// ISO dates compare correctly as strings.
	if len(fiscalEnds) > 0 {
		return maxString(fiscalEnds)
	}
	if len(candidates) > 0 {
		return maxString(candidates)
	}
	return model.UnknownDate
}

func maxString(values []string) string {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
