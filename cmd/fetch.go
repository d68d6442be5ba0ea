package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valuescope/valuescope/internal/edinet"
)

var (
	fetchFrom  string
	fetchTo    string
	fetchYears int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download securities report archives from EDINET",
	Long:  "Walks the June-July filing windows of recent years day by day, lists EDINET disclosures, and downloads the XBRL archives of securities reports filed by the configured entities. Archives filed outside the annual windows are pruned afterwards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		windows, err := fetchWindows(time.Now())
		if err != nil {
			return err
		}

		client := edinet.New(edinet.Options{
			BaseURL:         cfg.Edinet.BaseURL,
			SubscriptionKey: cfg.Edinet.SubscriptionKey,
			UserAgent:       cfg.Edinet.UserAgent,
			RequestsPerSec:  cfg.Edinet.RequestsPerSec,
		})

		codes := make(map[string]bool, len(cfg.Entities))
		for _, e := range cfg.Entities {
			codes[e.Code] = true
		}

		var downloaded int
		for _, w := range windows {
			zap.L().Info("fetch: scanning filing window",
				zap.String("from", w.from.Format("2006-01-02")),
				zap.String("to", w.to.Format("2006-01-02")),
			)
			for day := w.from; !day.After(w.to); day = day.AddDate(0, 0, 1) {
				date := day.Format("2006-01-02")
				docs, err := client.ListDocuments(ctx, date)
				if err != nil {
					return err
				}

				for _, doc := range edinet.AnnualReports(docs, codes) {
					dest := filepath.Join(cfg.Paths.ArchiveDir, doc.EdinetCode, date+"_"+doc.DocID+".zip")
					if err := client.DownloadArchive(ctx, doc.DocID, dest); err != nil {
						return err
					}
					downloaded++
					zap.L().Info("fetch: archive downloaded",
						zap.String("doc_id", doc.DocID),
						zap.String("edinet_code", doc.EdinetCode),
						zap.String("filer", doc.FilerName),
						zap.String("period_end", doc.PeriodEnd),
					)
				}
			}
		}

		var removed int
		for _, e := range cfg.Entities {
			n, err := cleanupNonAnnual(filepath.Join(cfg.Paths.ArchiveDir, e.Code))
			if err != nil {
				return err
			}
			removed += n
		}

		fmt.Printf("Downloaded %d archive(s) into %s (%d non-annual archive(s) removed)\n",
			downloaded, cfg.Paths.ArchiveDir, removed)
		return nil
	},
}

// window is one contiguous stretch of filing dates to scan.
type window struct {
	from, to time.Time
}

// fetchWindows resolves the filing windows. Explicit --from/--to forms a
// single window (a missing side defaults to the current-year bound).
// Otherwise one June 1 through July 31 window per year, the current year
// back through --years earlier: March fiscal year-end filers submit
// securities reports in late June, with amendments drifting into July.
// Windows are clamped to today; future windows are dropped.
func fetchWindows(now time.Time) ([]window, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if fetchFrom != "" || fetchTo != "" {
		w := window{
			from: time.Date(now.Year(), time.June, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(now.Year(), time.July, 31, 0, 0, 0, 0, time.UTC),
		}
		var err error
		if fetchFrom != "" {
			w.from, err = time.Parse("2006-01-02", fetchFrom)
			if err != nil {
				return nil, eris.Wrapf(err, "fetch: parse --from %q", fetchFrom)
			}
		}
		if fetchTo != "" {
			w.to, err = time.Parse("2006-01-02", fetchTo)
			if err != nil {
				return nil, eris.Wrapf(err, "fetch: parse --to %q", fetchTo)
			}
		}
		if w.to.Before(w.from) {
			return nil, eris.Errorf("fetch: --to %s precedes --from %s",
				w.to.Format("2006-01-02"), w.from.Format("2006-01-02"))
		}
		return []window{w}, nil
	}

	if fetchYears < 0 {
		return nil, eris.Errorf("fetch: --years %d is negative", fetchYears)
	}

	var windows []window
	for offset := 0; offset <= fetchYears; offset++ {
		year := now.Year() - offset
		w := window{
			from: time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(year, time.July, 31, 0, 0, 0, 0, time.UTC),
		}
		if w.from.After(today) {
			continue
		}
		if w.to.After(today) {
			w.to = today
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// cleanupNonAnnual removes archives filed outside June and July from one
// entity's archive directory. Quarterly and extraordinary reports share
// the filing calendar, so runs with an explicit --from/--to range can
// leave them behind; file names carry the filing date prefix
// (YYYY-MM-DD_docID.zip). Files without a parseable prefix are left alone.
func cleanupNonAnnual(dir string) (int, error) {
	archives, err := filepath.Glob(filepath.Join(dir, "*.zip"))
	if err != nil {
		return 0, eris.Wrapf(err, "fetch: scan %s", dir)
	}

	var removed int
	for _, path := range archives {
		name := filepath.Base(path)
		datePart, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		filed, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			continue
		}
		if filed.Month() == time.June || filed.Month() == time.July {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, eris.Wrapf(err, "fetch: remove %s", path)
		}
		removed++
		zap.L().Info("fetch: non-annual archive removed", zap.String("archive", name))
	}
	return removed, nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "first filing date to scan (YYYY-MM-DD); overrides the yearly windows")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "last filing date to scan (YYYY-MM-DD); overrides the yearly windows")
	fetchCmd.Flags().IntVar(&fetchYears, "years", 3, "past years of June-July filing windows to scan in addition to the current year")
	rootCmd.AddCommand(fetchCmd)
}
