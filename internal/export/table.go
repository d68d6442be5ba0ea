// Package export flattens harvested filing facts into tabular form for
// CSV and XLSX download.
package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Fixed leading columns of every fact table.
var leadColumns = []string{"fiscal_year", "date", "company_code"}

// Row is one filing's harvested facts.
type Row struct {
	FiscalYear  string
	Date        string
	CompanyCode string
	Facts       map[string]float64
}

// Header returns the column set for a row group: the fixed lead columns
// followed by the sorted union of every row's fact keys. Rows missing a
// key render an empty cell, so sparse filings stay aligned.
func Header(rows []Row) []string {
	union := map[string]bool{}
	for _, r := range rows {
		for k := range r.Facts {
			union[k] = true
		}
	}
	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return append(append([]string{}, leadColumns...), keys...)
}

// Table renders the rows under their unified header.
func Table(rows []Row) [][]string {
	header := Header(rows)
	out := [][]string{header}
	for _, r := range rows {
		cells := []string{r.FiscalYear, r.Date, r.CompanyCode}
		for _, key := range header[len(leadColumns):] {
			v, ok := r.Facts[key]
			if !ok {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, strconv.FormatFloat(v, 'f', -1, 64))
		}
		out = append(out, cells)
	}
	return out
}

// WriteCSV writes the fact table as CSV.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	for _, record := range Table(rows) {
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// AddSheet renders the fact table as one sheet of a workbook.
func AddSheet(f *xlsx.File, sheetName string, rows []Row) error {
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", sheetName)
	}
	for _, record := range Table(rows) {
		row := sheet.AddRow()
		for _, cell := range record {
			row.AddCell().Value = cell
		}
	}
	return nil
}

// WriteXLSX writes the fact table as a single-sheet workbook.
func WriteXLSX(path, sheetName string, rows []Row) error {
	f := xlsx.NewFile()
	if err := AddSheet(f, sheetName, rows); err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
