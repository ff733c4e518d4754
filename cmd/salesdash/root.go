package main

import (
	"os"

	"github.com/spf13/cobra"

	"salesdash/internal/config"
	apierrors "salesdash/internal/errors"
	"salesdash/internal/infrastructure"
)

var (
	cfg        *config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:     "salesdash",
	Short:   "Sales dashboard analytics",
	Long:    "Turns a sales export (CSV or xlsx) into summary metrics, a daily revenue trend, top products and region rollups.",
	Version: infrastructure.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *config.Config
			err error
		)
		if configFile != "" {
			c, err = config.LoadFrom(configFile)
		} else {
			c, err = config.Load()
		}
		if err != nil {
			return apierrors.NewConfigError("load config", err)
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = infrastructure.CloseLogFile()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file (default: $SALESDASH_CONFIG, config.yaml, configs/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
