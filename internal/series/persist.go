package series

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Artifact file names under the cache and publish directories.
const (
	TimeSeriesFile = "timeseries.json"
	ValuationFile  = "valuation.json"
	ScorecardFile  = "scorecards.json"
)

// Payloader reports whether an artifact carries any data. Empty artifacts
// are never published over a previous good build.
type Payloader interface {
	HasPayload() bool
}

// Preserve implements the non-destructive publish rule: when the fresh
// artifact is empty, the previously published copy survives, then the
// cached copy. Only when no prior copy exists does the empty artifact go
// out as-is.
func Preserve[T Payloader](fresh T, publishDir, cacheDir, name string) T {
	if fresh.HasPayload() {
		return fresh
	}
	for _, dir := range []string{publishDir, cacheDir} {
		var prior T
		if err := readJSON(filepath.Join(dir, name), &prior); err != nil {
			continue
		}
		if prior.HasPayload() {
			zap.L().Warn("series: empty build result, keeping prior artifact",
				zap.String("artifact", name),
				zap.String("source", dir),
			)
			return prior
		}
	}
	return fresh
}

// Write serializes the artifact into both the cache and publish
// directories, creating them as needed.
func Write(doc any, cacheDir, publishDir, name string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "series: marshal %s", name)
	}
	for _, dir := range []string{cacheDir, publishDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "series: create %s", dir)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrapf(err, "series: write %s", path)
		}
	}
	return nil
}

func readJSON(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "series: read %s", path)
	}
	return eris.Wrapf(json.Unmarshal(data, into), "series: decode %s", path)
}
