package prices

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ParseCSV reads a daily price series in Stooq's CSV layout: a header row
// (Date,Open,High,Low,Close,Volume), one row per trading day. Lines
// starting with '#' are metadata and skipped. Rows with an unparseable
// date or close are dropped rather than failing the whole file.
func ParseCSV(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "prices: read csv")
	}
	if len(rows) == 0 {
		return nil, eris.New("prices: empty csv")
	}

	header := rows[0]
	dateIdx, closeIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "date":
			dateIdx = i
		case "close":
			closeIdx = i
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return nil, eris.Errorf("prices: csv header missing Date/Close columns: %v", header)
	}

	var obs []Observation
	for _, row := range rows[1:] {
		if len(row) <= dateIdx || len(row) <= closeIdx {
			continue
		}
		d, err := time.Parse(DateLayout, strings.TrimSpace(row[dateIdx]))
		if err != nil {
			continue
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(row[closeIdx]), 64)
		if err != nil {
			continue
		}
		obs = append(obs, Observation{Date: d, Close: c})
	}
	return obs, nil
}
