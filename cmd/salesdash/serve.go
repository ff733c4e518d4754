package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/app"
	"salesdash/internal/infrastructure"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	Long: `Starts the HTTP server. Upload a sales file to /api/analytics/upload to get
the dashboard JSON, or to /api/analytics/export for an xlsx workbook.

Examples:
  salesdash serve --port 9090
  curl -F file=@sales.csv 'http://localhost:9090/api/analytics/upload?top=10'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		a, err := app.NewApplication(cfg, logger)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return a.Run()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 = use config)")
	rootCmd.AddCommand(serveCmd)
}
