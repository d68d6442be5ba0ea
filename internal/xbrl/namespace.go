package xbrl

import "strings"

// Taxonomy URI markers. EDINET re-versions taxonomy URIs every fiscal year
// (http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2024-11-01/... and so
// on), so resolution is by substring marker only, never by exact URI.
const (
	MarkerStatement = "jppfs" // financial statement concepts
	MarkerCorporate = "jpcrp" // corporate disclosure concepts
	MarkerInvestor  = "jpdei" // investor / entity information concepts
)

var taxonomyMarkers = []string{MarkerStatement, MarkerCorporate, MarkerInvestor}

// ResolveNamespaces returns the prefix-to-URI bindings whose URI belongs to
// one of the known taxonomies. An empty result is not an error: downstream
// extraction over a missing taxonomy simply yields zero facts, so filings
// with a partial taxonomy set still produce their other statements.
func ResolveNamespaces(doc *Document) map[string]string {
	resolved := make(map[string]string)
	for prefix, uri := range doc.RootNamespaces {
		if isTaxonomyURI(uri) {
			resolved[prefix] = uri
		}
	}
	return resolved
}

func isTaxonomyURI(uri string) bool {
	for _, marker := range taxonomyMarkers {
		if strings.Contains(uri, marker) {
			return true
		}
	}
	return false
}
