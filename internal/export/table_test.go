package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func sampleRows() []Row {
	return []Row{
		{
			FiscalYear:  "FY2022",
			Date:        "2023-03-31",
			CompanyCode: "E04498",
			Facts:       map[string]float64{"Assets": 28_000_000, "NetSales": 7_000_000},
		},
		{
			FiscalYear:  "FY2023",
			Date:        "2024-03-31",
			CompanyCode: "E04498",
			Facts:       map[string]float64{"Assets": 29_000_000, "CashAndDeposits": 1_200_000},
		},
	}
}

func TestHeaderUnion(t *testing.T) {
	header := Header(sampleRows())
	assert.Equal(t, []string{
		"fiscal_year", "date", "company_code",
		"Assets", "CashAndDeposits", "NetSales",
	}, header)
}

func TestTableSparseCells(t *testing.T) {
	table := Table(sampleRows())
	require.Len(t, table, 3)

	// First row has no CashAndDeposits, second no NetSales.
	assert.Equal(t, []string{"FY2022", "2023-03-31", "E04498", "28000000", "", "7000000"}, table[1])
	assert.Equal(t, []string{"FY2023", "2024-03-31", "E04498", "29000000", "1200000", ""}, table[2])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "fiscal_year", records[0][0])
	assert.Equal(t, "FY2023", records[2][0])
}

func TestAddSheetMultiSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.xlsx")

	f := xlsx.NewFile()
	require.NoError(t, AddSheet(f, "BS", sampleRows()))
	require.NoError(t, AddSheet(f, "PL", sampleRows()[:1]))
	require.NoError(t, f.Save(path))

	loaded, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Sheets, 2)
	assert.Equal(t, "BS", loaded.Sheets[0].Name)
	assert.Equal(t, "PL", loaded.Sheets[1].Name)
	assert.Len(t, loaded.Sheets[1].Rows, 2)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.xlsx")
	require.NoError(t, WriteXLSX(path, "TEPCO", sampleRows()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "TEPCO", f.Sheets[0].Name)
	require.Len(t, f.Sheets[0].Rows, 3)
	assert.Equal(t, "fiscal_year", f.Sheets[0].Rows[0].Cells[0].Value)
	assert.Equal(t, "29000000", f.Sheets[0].Rows[2].Cells[3].Value)
}
