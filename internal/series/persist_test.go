package series

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuescope/valuescope/internal/model"
)

func writeDoc(t *testing.T, dir, name string, doc any) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestPreserveKeepsFreshPayload(t *testing.T) {
	fresh := model.TimeSeriesDoc{"TEPCO": {{Date: "2024-03-31"}}}
	got := Preserve(fresh, t.TempDir(), t.TempDir(), TimeSeriesFile)
	assert.Equal(t, fresh, got)
}

func TestPreservePrefersPublishedCopy(t *testing.T) {
	publishDir, cacheDir := t.TempDir(), t.TempDir()

	published := model.TimeSeriesDoc{"TEPCO": {{Date: "2023-03-31"}}}
	writeDoc(t, publishDir, TimeSeriesFile, published)
	writeDoc(t, cacheDir, TimeSeriesFile, model.TimeSeriesDoc{"TEPCO": {{Date: "2020-03-31"}}})

	got := Preserve(model.TimeSeriesDoc{}, publishDir, cacheDir, TimeSeriesFile)
	require.Len(t, got["TEPCO"], 1)
	assert.Equal(t, "2023-03-31", got["TEPCO"][0].Date)
}

func TestPreserveFallsBackToCache(t *testing.T) {
	publishDir, cacheDir := t.TempDir(), t.TempDir()

	cached := model.TimeSeriesDoc{"TEPCO": {{Date: "2022-03-31"}}}
	writeDoc(t, cacheDir, TimeSeriesFile, cached)

	got := Preserve(model.TimeSeriesDoc{}, publishDir, cacheDir, TimeSeriesFile)
	require.Len(t, got["TEPCO"], 1)
	assert.Equal(t, "2022-03-31", got["TEPCO"][0].Date)
}

func TestPreserveNoPriorCopy(t *testing.T) {
	fresh := model.TimeSeriesDoc{}
	got := Preserve(fresh, t.TempDir(), t.TempDir(), TimeSeriesFile)
	assert.Empty(t, got)
}

func TestPreserveValuationDoc(t *testing.T) {
	publishDir, cacheDir := t.TempDir(), t.TempDir()

	prior := model.ValuationDoc{
		AsOf:      "2025-08-01",
		Companies: map[string]model.Valuation{"TEPCO": {Date: "2024-03-31"}},
	}
	writeDoc(t, publishDir, ValuationFile, prior)

	fresh := model.ValuationDoc{AsOf: "2025-09-01", Companies: map[string]model.Valuation{}}
	got := Preserve(fresh, publishDir, cacheDir, ValuationFile)
	assert.Equal(t, "2025-08-01", got.AsOf)
	assert.Contains(t, got.Companies, "TEPCO")
}

func TestWriteBothDirectories(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "data")
	publishDir := filepath.Join(t.TempDir(), "public", "data")

	doc := model.TimeSeriesDoc{"TEPCO": {{Date: "2024-03-31", Year: 2024}}}
	require.NoError(t, Write(doc, cacheDir, publishDir, TimeSeriesFile))

	for _, dir := range []string{cacheDir, publishDir} {
		data, err := os.ReadFile(filepath.Join(dir, TimeSeriesFile))
		require.NoError(t, err)

		var loaded model.TimeSeriesDoc
		require.NoError(t, json.Unmarshal(data, &loaded))
		require.Len(t, loaded["TEPCO"], 1)
		assert.Equal(t, 2024, loaded["TEPCO"][0].Year)
	}
}
