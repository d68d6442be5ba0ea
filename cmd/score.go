package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valuescope/valuescope/internal/kpi"
	"github.com/valuescope/valuescope/internal/model"
	"github.com/valuescope/valuescope/internal/scorecard"
	"github.com/valuescope/valuescope/internal/series"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Evaluate KPIs against thresholds and build the scorecard artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := scorecard.LoadThresholds(cfg.Scorecard.ThresholdsPath)
		if err != nil {
			return err
		}
		evaluator := &scorecard.Evaluator{Set: set}

		doc := model.ScorecardDoc{
			AsOf:      time.Now().Format("2006-01-02"),
			Companies: map[string]map[string]model.ScoreEntry{},
		}

		for _, entity := range cfg.Entities {
			records, err := loadRecords(entity)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				zap.L().Warn("score: no records", zap.String("entity", entity.Code))
				continue
			}

			scored := make([]scorecard.Record, 0, len(records))
			for _, rec := range records {
				scored = append(scored, scorecard.Record{
					Date:   rec.Date,
					Values: kpiValues(kpi.Compute(rec)),
				})
			}

			periods := evaluator.Scorecard(entity.Code, scored)
			if len(periods) > 0 {
				doc.Companies[entity.Name] = periods
			}
		}

		doc = series.Preserve(doc, cfg.Paths.PublishDir, cfg.Paths.CacheDir, series.ScorecardFile)
		if err := series.Write(doc, cfg.Paths.CacheDir, cfg.Paths.PublishDir, series.ScorecardFile); err != nil {
			return err
		}

		fmt.Printf("Built %s for %d entit(ies)\n", series.ScorecardFile, len(doc.Companies))
		return nil
	},
}

// kpiValues flattens a metrics record into the threshold key space.
func kpiValues(m model.Metrics) map[string]float64 {
	return map[string]float64{
		"roe":          m.ROE,
		"equityRatio":  m.EquityRatio,
		"dscr":         m.DSCR,
		"roic":         m.ROIC,
		"wacc":         m.WACC,
		"ebitdaMargin": m.EBITDAMargin,
		"fcfMargin":    m.FCFMargin,
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
