package xbrl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const jppfsURI = "http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2024-11-01/jppfs_cor"

func factDoc(facts ...Fact) (*Document, map[string]string) {
	doc := &Document{
		RootNamespaces: map[string]string{"jppfs_cor": jppfsURI},
		Facts:          facts,
	}
	return doc, ResolveNamespaces(doc)
}

func TestHarvestNormalizesLargeValues(t *testing.T) {
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant", Value: "29000000000000"},
	)
	got := Harvest(doc, ns, KindInstant)
	assert.InDelta(t, 29_000_000, got["Assets"], 0.001)
}

func TestHarvestLeavesSmallValuesUnscaled(t *testing.T) {
	// Ratios and per-share figures sit at or below the scale threshold
	// and pass through untouched.
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "EquityToAssetRatio", ContextRef: "CurrentYearInstant", Value: "0.31"},
		Fact{Namespace: jppfsURI, Local: "Boundary", ContextRef: "CurrentYearInstant", Value: "1000"},
	)
	got := Harvest(doc, ns, KindInstant)
	assert.InDelta(t, 0.31, got["EquityToAssetRatio"], 0.0001)
	assert.InDelta(t, 1000, got["Boundary"], 0.0001)
}

func TestHarvestRawSkipsScaling(t *testing.T) {
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant", Value: "29000000000000"},
	)
	got := HarvestRaw(doc, ns, KindInstant)
	assert.InDelta(t, 29_000_000_000_000, got["Assets"], 0.001)
}

func TestHarvestFiltersByContextKind(t *testing.T) {
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant", Value: "100"},
		Fact{Namespace: jppfsURI, Local: "NetSales", ContextRef: "CurrentYearDuration", Value: "200"},
	)

	instant := Harvest(doc, ns, KindInstant)
	assert.Contains(t, instant, "Assets")
	assert.NotContains(t, instant, "NetSales")

	duration := Harvest(doc, ns, KindDuration)
	assert.Contains(t, duration, "NetSales")
	assert.NotContains(t, duration, "Assets")

	all := Harvest(doc, ns, KindAll)
	assert.Len(t, all, 2)
}

func TestHarvestFiltersByNamespace(t *testing.T) {
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant", Value: "100"},
		Fact{Namespace: "http://example.com/unrelated", Local: "Noise", ContextRef: "CurrentYearInstant", Value: "999"},
	)
	got := Harvest(doc, ns, KindInstant)
	assert.Contains(t, got, "Assets")
	assert.NotContains(t, got, "Noise")
}

func TestHarvestDeduplicatesByMagnitude(t *testing.T) {
	// Consolidated vs non-consolidated duplicates: the greatest raw
	// magnitude wins regardless of document order or sign.
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant_NonConsolidated", Value: "5000000"},
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant", Value: "-8000000"},
		Fact{Namespace: jppfsURI, Local: "Assets", ContextRef: "CurrentYearInstant_Segment", Value: "3000000"},
	)
	got := HarvestRaw(doc, ns, KindInstant)
	assert.InDelta(t, -8_000_000, got["Assets"], 0.001)
}

func TestHarvestSkipsUnparseable(t *testing.T) {
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "FilerName", ContextRef: "CurrentYearInstant", Value: "Tokyo Electric"},
		Fact{Namespace: jppfsURI, Local: "Blank", ContextRef: "CurrentYearInstant", Value: "   "},
		Fact{Namespace: jppfsURI, Local: "NetSales", ContextRef: "CurrentYearInstant", Value: "6,918,389"},
	)
	got := HarvestRaw(doc, ns, KindInstant)
	assert.Len(t, got, 1)
	assert.InDelta(t, 6_918_389, got["NetSales"], 0.001)
}

func TestHarvestKeyword(t *testing.T) {
	doc, ns := factDoc(
		Fact{Namespace: jppfsURI, Local: "NetCashProvidedByUsedInOperatingActivities", ContextRef: "CurrentYearDuration", Value: "120000000000"},
		Fact{Namespace: jppfsURI, Local: "NetSales", ContextRef: "CurrentYearDuration", Value: "6918389000000"},
	)
	got := HarvestKeyword(doc, ns, KindDuration, CashFlowKeywords)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "NetCashProvidedByUsedInOperatingActivities")
}

func TestNormalizeUnit(t *testing.T) {
	assert.InDelta(t, 1.5, NormalizeUnit(1_500_000), 0.0001)
	assert.InDelta(t, 999, NormalizeUnit(999), 0.0001)
	assert.InDelta(t, -2.0, NormalizeUnit(-2_000_000), 0.0001)
}
