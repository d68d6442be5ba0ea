package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valuescope/valuescope/internal/config"
	"github.com/valuescope/valuescope/internal/model"
	"github.com/valuescope/valuescope/internal/prices"
	"github.com/valuescope/valuescope/internal/series"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the time series and valuation artifacts",
	Long:  "Joins each entity's extracted records against the price store, derives the annual KPI series and the latest valuation snapshot, and writes both artifacts to the cache and publish directories. An empty build result never overwrites a previous good artifact.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := prices.Open(ctx, cfg.Prices.Driver, cfg.Prices.DSN)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		timeseries := model.TimeSeriesDoc{}
		valuation := model.ValuationDoc{
			AsOf:      time.Now().Format("2006-01-02"),
			RunID:     uuid.NewString(),
			Companies: map[string]model.Valuation{},
		}

		for _, entity := range cfg.Entities {
			records, err := loadRecords(entity)
			if err != nil {
				return err
			}

			builder := &series.Builder{FiscalYearEnd: entity.FiscalYearEnd}
			annual := builder.Annual(records)
			if len(annual) == 0 {
				zap.L().Warn("build: no annual records", zap.String("entity", entity.Code))
				continue
			}

			points := make([]model.SeriesPoint, 0, len(annual))
			for _, rec := range annual {
				price, err := lookupPrice(ctx, store, entity, rec.Date)
				if err != nil {
					return err
				}
				points = append(points, builder.Point(rec, price))
			}
			timeseries[entity.Name] = points

			latest := annual[len(annual)-1]
			price, err := lookupPrice(ctx, store, entity, latest.Date)
			if err != nil {
				return err
			}
			valuation.Companies[entity.Name] = builder.Snapshot(latest, price)
		}

		timeseries = series.Preserve(timeseries, cfg.Paths.PublishDir, cfg.Paths.CacheDir, series.TimeSeriesFile)
		valuation = series.Preserve(valuation, cfg.Paths.PublishDir, cfg.Paths.CacheDir, series.ValuationFile)

		if err := series.Write(timeseries, cfg.Paths.CacheDir, cfg.Paths.PublishDir, series.TimeSeriesFile); err != nil {
			return err
		}
		if err := series.Write(valuation, cfg.Paths.CacheDir, cfg.Paths.PublishDir, series.ValuationFile); err != nil {
			return err
		}

		fmt.Printf("Built %s and %s for %d entit(ies)\n",
			series.TimeSeriesFile, series.ValuationFile, len(timeseries))
		return nil
	},
}

// lookupPrice joins a record date against the entity's price series. A
// nil result means no market data and the entity's valuation fields stay
// null; only store failures surface as errors.
func lookupPrice(ctx context.Context, store prices.Store, entity config.EntityConfig, date string) (*float64, error) {
	if entity.Symbol == "" {
		return nil, nil
	}
	return prices.Lookup(ctx, store, entity.Symbol, date, cfg.Prices.StalenessDays)
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
