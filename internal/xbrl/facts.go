package xbrl

import (
	"math"
	"strconv"
	"strings"
)

// Filings report raw yen; downstream consumers expect millions. The
// original pipeline never reads XBRL unit declarations and instead applies
// this magnitude heuristic: values at or below the threshold (ratios,
// per-share figures, share counts already in convenient units) pass
// through unscaled. Treat it as stated, tested behavior.
const (
	scaleThreshold = 1000
	millionDivisor = 1_000_000
)

// Harvest walks every fact in the document and returns a map from concept
// local name to normalized numeric value.
//
// A fact is kept when its namespace URI is one of the resolved taxonomy
// URIs, its contextRef contains the kind selector (KindAll disables the
// filter), and its text parses as a number after thousands-separator
// removal. Unparseable facts are skipped, never raised. When a concept
// appears under multiple matching contexts the greatest-magnitude raw
// value wins, approximating "prefer the most complete disclosure" without
// parsing per-context semantics.
func Harvest(doc *Document, namespaces map[string]string, kind ContextKind) map[string]float64 {
	return harvest(doc, namespaces, kind, nil)
}

// CashFlowKeywords are the concept-name markers identifying cash-flow
// facts. CF concepts are harvested by keyword because their taxonomy
// naming is the least standardized.
var CashFlowKeywords = []string{"CashFlow", "CF", "NetCash", "CashAndCash"}

// HarvestKeyword is Harvest restricted to concepts whose local name
// contains one of the given markers.
func HarvestKeyword(doc *Document, namespaces map[string]string, kind ContextKind, keywords []string) map[string]float64 {
	return harvest(doc, namespaces, kind, keywords)
}

// HarvestRaw is Harvest without unit normalization. The statement
// assembler works from raw values because share counts stay unscaled while
// yen amounts are converted to millions per field.
func HarvestRaw(doc *Document, namespaces map[string]string, kind ContextKind) map[string]float64 {
	return harvestRaw(doc, namespaces, kind, nil)
}

func harvest(doc *Document, namespaces map[string]string, kind ContextKind, keywords []string) map[string]float64 {
	raw := harvestRaw(doc, namespaces, kind, keywords)
	normalized := make(map[string]float64, len(raw))
	for concept, value := range raw {
		normalized[concept] = NormalizeUnit(value)
	}
	return normalized
}

func harvestRaw(doc *Document, namespaces map[string]string, kind ContextKind, keywords []string) map[string]float64 {
	raw := make(map[string]float64)

	for _, fact := range doc.Facts {
		if !namespaceResolved(namespaces, fact.Namespace) {
			continue
		}
		if kind != KindAll && !strings.Contains(fact.ContextRef, string(kind)) {
			continue
		}
		if keywords != nil && !containsAny(fact.Local, keywords) {
			continue
		}
		text := strings.TrimSpace(fact.Value)
		if text == "" {
			continue
		}
		value, err := parseNumber(text)
		if err != nil {
			continue
		}
		if prev, ok := raw[fact.Local]; !ok || math.Abs(value) > math.Abs(prev) {
			raw[fact.Local] = value
		}
	}

	return raw
}

// NormalizeUnit converts a raw fact value to millions when its magnitude
// exceeds the scale threshold.
func NormalizeUnit(value float64) float64 {
	if math.Abs(value) > scaleThreshold {
		return value / millionDivisor
	}
	return value
}

func namespaceResolved(namespaces map[string]string, uri string) bool {
	for _, resolved := range namespaces {
		if resolved == uri {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
