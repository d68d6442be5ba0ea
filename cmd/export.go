package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/valuescope/valuescope/internal/archive"
	"github.com/valuescope/valuescope/internal/config"
	"github.com/valuescope/valuescope/internal/export"
	"github.com/valuescope/valuescope/internal/model"
	"github.com/valuescope/valuescope/internal/xbrl"
)

var exportFormat string

// Statement sections of the export, in sheet order.
var exportSections = []string{"BS", "PL", "CF"}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export harvested fact tables as CSV or XLSX",
	Long:  "Re-reads each entity's filing archives and writes every harvested numeric fact, unit-normalized, split into balance-sheet, income, and cash-flow tables. Columns are the union of all fact names across filings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "xlsx" {
			return eris.Errorf("export: unknown format %q (csv or xlsx)", exportFormat)
		}

		var written int
		for _, entity := range cfg.Entities {
			tables, err := factTables(entity)
			if err != nil {
				return err
			}
			if len(tables["BS"])+len(tables["PL"])+len(tables["CF"]) == 0 {
				zap.L().Warn("export: no usable filings", zap.String("entity", entity.Code))
				continue
			}

			if err := writeFactTables(entity, tables); err != nil {
				return err
			}
			written++
		}

		fmt.Printf("Exported fact tables for %d entit(ies)\n", written)
		return nil
	},
}

// factTables harvests one row per usable filing for each statement
// section. Unusable filings are skipped, mirroring the extract command.
func factTables(entity config.EntityConfig) (map[string][]export.Row, error) {
	archives, err := filepath.Glob(filepath.Join(cfg.Paths.ArchiveDir, entity.Code, "*.zip"))
	if err != nil {
		return nil, eris.Wrapf(err, "export: scan archives for %s", entity.Code)
	}

	workDir, err := os.MkdirTemp("", "valuescope-export-*")
	if err != nil {
		return nil, eris.Wrap(err, "export: create work dir")
	}
	defer os.RemoveAll(workDir) //nolint:errcheck

	tables := make(map[string][]export.Row, len(exportSections))
	for _, zipPath := range archives {
		rows, err := harvestRows(zipPath, workDir, entity)
		if err != nil {
			zap.L().Warn("export: filing skipped",
				zap.String("entity", entity.Code),
				zap.String("archive", filepath.Base(zipPath)),
				zap.Error(err),
			)
			continue
		}
		for section, row := range rows {
			tables[section] = append(tables[section], row)
		}
	}

	for _, section := range exportSections {
		rows := tables[section]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	}
	return tables, nil
}

func harvestRows(zipPath, workDir string, entity config.EntityConfig) (map[string]export.Row, error) {
	instancePath, err := archive.ExtractInstanceDoc(zipPath, workDir)
	if err != nil {
		return nil, err
	}

	doc, err := xbrl.ParseFile(instancePath)
	if err != nil {
		return nil, err
	}
	namespaces := xbrl.ResolveNamespaces(doc)
	if len(namespaces) == 0 {
		return nil, eris.New("no taxonomy namespace declared")
	}

	bsDate := xbrl.ResolveReportingDate(doc.Contexts, xbrl.KindInstant, entity.FiscalYearEnd)
	plDate := xbrl.ResolveReportingDate(doc.Contexts, xbrl.KindDuration, entity.FiscalYearEnd)

	sections := map[string]struct {
		date  string
		facts map[string]float64
	}{
		"BS": {bsDate, xbrl.Harvest(doc, namespaces, xbrl.KindInstant)},
		"PL": {plDate, xbrl.Harvest(doc, namespaces, xbrl.KindDuration)},
		"CF": {plDate, xbrl.HarvestKeyword(doc, namespaces, xbrl.KindDuration, xbrl.CashFlowKeywords)},
	}

	rows := make(map[string]export.Row)
	for section, s := range sections {
		if len(s.facts) == 0 || s.date == model.UnknownDate {
			continue
		}
		rows[section] = export.Row{
			FiscalYear:  fiscalYearLabel(s.date),
			Date:        s.date,
			CompanyCode: entity.Code,
			Facts:       s.facts,
		}
	}
	if len(rows) == 0 {
		return nil, eris.New("no numeric facts")
	}
	return rows, nil
}

// fiscalYearLabel names the Japanese fiscal year a reporting date closes:
// dates in January through March belong to the prior calendar year's
// fiscal year.
func fiscalYearLabel(date string) string {
	if len(date) < 7 {
		return ""
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return ""
	}
	month, err := strconv.Atoi(date[5:7])
	if err != nil {
		return ""
	}
	if month <= 3 {
		year--
	}
	return "FY" + strconv.Itoa(year)
}

// writeFactTables writes either one CSV per section or a single workbook
// with one sheet per section.
func writeFactTables(entity config.EntityConfig, tables map[string][]export.Row) error {
	if err := os.MkdirAll(cfg.Paths.CacheDir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create %s", cfg.Paths.CacheDir)
	}
	base := strings.ToLower(entity.Name)

	if exportFormat == "xlsx" {
		path := filepath.Join(cfg.Paths.CacheDir, base+"_facts.xlsx")
		f := xlsx.NewFile()
		for _, section := range exportSections {
			if len(tables[section]) == 0 {
				continue
			}
			if err := export.AddSheet(f, section, tables[section]); err != nil {
				return err
			}
		}
		if err := f.Save(path); err != nil {
			return eris.Wrapf(err, "export: save %s", path)
		}
		zap.L().Info("export: workbook written",
			zap.String("entity", entity.Code),
			zap.String("path", path),
		)
		return nil
	}

	for _, section := range exportSections {
		rows := tables[section]
		if len(rows) == 0 {
			continue
		}
		path := filepath.Join(cfg.Paths.CacheDir,
			base+"_"+strings.ToLower(section)+".csv")
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", path)
		}
		if err := export.WriteCSV(f, rows); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "export: close %s", path)
		}
		zap.L().Info("export: table written",
			zap.String("entity", entity.Code),
			zap.String("path", path),
			zap.Int("filings", len(rows)),
		)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	rootCmd.AddCommand(exportCmd)
}
