package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valuescope/valuescope/internal/archive"
	"github.com/valuescope/valuescope/internal/config"
	"github.com/valuescope/valuescope/internal/model"
	"github.com/valuescope/valuescope/internal/statement"
)

var extractConcurrency int

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract financial records from downloaded archives",
	Long:  "Unpacks each entity's filing archives, parses the XBRL instance documents, and writes per-entity financial record files into the cache directory. A filing that fails extraction is logged and skipped; it never aborts the run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(extractConcurrency)

		var extracted, skipped atomic.Int64

		for _, entity := range cfg.Entities {
			g.Go(func() error {
				n, s, err := extractEntity(entity)
				extracted.Add(int64(n))
				skipped.Add(int64(s))
				return err
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("Extracted %d filing(s), skipped %d\n", extracted.Load(), skipped.Load())
		return nil
	},
}

// extractEntity processes every archive of one entity and writes its
// record file. Returns counts of assembled and skipped filings.
func extractEntity(entity config.EntityConfig) (int, int, error) {
	log := zap.L().With(zap.String("entity", entity.Code))

	archives, err := filepath.Glob(filepath.Join(cfg.Paths.ArchiveDir, entity.Code, "*.zip"))
	if err != nil {
		return 0, 0, eris.Wrapf(err, "extract: scan archives for %s", entity.Code)
	}
	if len(archives) == 0 {
		log.Warn("extract: no archives found")
		return 0, 0, nil
	}

	workDir, err := os.MkdirTemp("", "valuescope-extract-*")
	if err != nil {
		return 0, 0, eris.Wrap(err, "extract: create work dir")
	}
	defer os.RemoveAll(workDir) //nolint:errcheck

	assembler := &statement.Assembler{FiscalYearEnd: entity.FiscalYearEnd}

	var records []model.FinancialRecord
	var skipped int
	for _, zipPath := range archives {
		instancePath, err := archive.ExtractInstanceDoc(zipPath, workDir)
		if err != nil {
			skipped++
			log.Warn("extract: filing skipped",
				zap.String("archive", filepath.Base(zipPath)),
				zap.Error(err),
			)
			continue
		}

		rec, err := assembler.Assemble(instancePath, entity.Code)
		if err != nil {
			skipped++
			log.Warn("extract: filing skipped",
				zap.String("archive", filepath.Base(zipPath)),
				zap.Error(err),
			)
			continue
		}
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	if err := writeRecords(entity, records); err != nil {
		return len(records), skipped, err
	}

	log.Info("extract: entity complete",
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
	)
	return len(records), skipped, nil
}

func writeRecords(entity config.EntityConfig, records []model.FinancialRecord) error {
	if err := os.MkdirAll(cfg.Paths.CacheDir, 0o755); err != nil {
		return eris.Wrapf(err, "extract: create %s", cfg.Paths.CacheDir)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "extract: marshal records for %s", entity.Code)
	}
	path := recordsPath(entity)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "extract: write %s", path)
	}
	return nil
}

// recordsPath is the cache file holding one entity's extracted records.
func recordsPath(entity config.EntityConfig) string {
	return filepath.Join(cfg.Paths.CacheDir, strings.ToLower(entity.Name)+"_financials.json")
}

func loadRecords(entity config.EntityConfig) ([]model.FinancialRecord, error) {
	data, err := os.ReadFile(recordsPath(entity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "load records for %s", entity.Code)
	}
	var records []model.FinancialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "decode records for %s", entity.Code)
	}
	return records, nil
}

func init() {
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", 3, "entities processed in parallel")
	rootCmd.AddCommand(extractCmd)
}
