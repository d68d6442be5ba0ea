package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valuescope/valuescope/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "valuescope",
	Short: "Financial KPI pipeline for EDINET filers",
	Long:  "Fetches securities reports from EDINET, extracts XBRL statement data, derives KPI and valuation series, and publishes dashboard artifacts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
