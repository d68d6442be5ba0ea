package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valuescope/valuescope/internal/prices"
)

var pricesImportSymbol string

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Manage the daily closing price store",
}

var pricesImportCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import a daily price CSV into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if pricesImportSymbol == "" {
			return eris.New("prices: --symbol is required")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "prices: open %s", args[0])
		}
		defer f.Close() //nolint:errcheck

		obs, err := prices.ParseCSV(f)
		if err != nil {
			return err
		}

		store, err := prices.Open(ctx, cfg.Prices.Driver, cfg.Prices.DSN)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		if err := store.Upsert(ctx, pricesImportSymbol, obs); err != nil {
			return err
		}

		fmt.Printf("Imported %d observation(s) for %s\n", len(obs), pricesImportSymbol)
		return nil
	},
}

var pricesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch daily price history for all configured symbols",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := prices.Open(ctx, cfg.Prices.Driver, cfg.Prices.DSN)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		client := prices.NewStooq()
		for _, entity := range cfg.Entities {
			if entity.Symbol == "" {
				continue
			}
			obs, err := client.FetchDaily(ctx, entity.Symbol)
			if err != nil {
				return err
			}
			if err := store.Upsert(ctx, entity.Symbol, obs); err != nil {
				return err
			}
			zap.L().Info("prices: series updated",
				zap.String("symbol", entity.Symbol),
				zap.Int("observations", len(obs)),
			)
		}

		fmt.Println("Price store updated")
		return nil
	},
}

func init() {
	pricesImportCmd.Flags().StringVar(&pricesImportSymbol, "symbol", "", "symbol the CSV belongs to, e.g. 9501.T")
	pricesCmd.AddCommand(pricesImportCmd)
	pricesCmd.AddCommand(pricesFetchCmd)
	rootCmd.AddCommand(pricesCmd)
}
