package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"salesdash/internal/dataprocessing"
	apierrors "salesdash/internal/errors"
	"salesdash/internal/exporter"
	"salesdash/internal/infrastructure"
	"salesdash/internal/middleware"
	"salesdash/internal/services"
	"salesdash/internal/validation"
	"salesdash/pkg/contracts/domain"
)

var (
	analyzeTop    int
	analyzeFormat string
	analyzeXLSX   string
	analyzeCSVDir string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Build the dashboard for one sales file",
	Long: `Loads a sales export, drops rows that fail validation and prints the dashboard.

The file needs the columns order_date, product, region, quantity and unit_price.

Examples:
  # Human-readable summary
  salesdash analyze sales.csv

  # JSON with the ten best-selling products, plus a workbook
  salesdash analyze sales.csv --top 10 --format json --xlsx dashboard.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		switch analyzeFormat {
		case "json", "text":
		default:
			return apierrors.NewAppValidationError(fmt.Sprintf("unknown format %q (want json or text)", analyzeFormat))
		}

		// Logs go to stderr so stdout stays parseable.
		logger := infrastructure.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level)

		fv := validation.NewFileValidator(logger)
		if err := fv.ValidateSalesFile(path); err != nil {
			return apierrors.NewAppValidationError(err.Error())
		}
		if analyzeXLSX != "" {
			if err := fv.ValidateOutputFile(analyzeXLSX, ".xlsx"); err != nil {
				return apierrors.NewAppValidationError(err.Error())
			}
		}
		if analyzeCSVDir != "" {
			if err := fv.ValidateOutputDirectory(analyzeCSVDir); err != nil {
				return apierrors.NewStorageError("prepare csv directory", err)
			}
		}

		f, err := openSalesFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		pipeline := dataprocessing.NewPipeline(logger)
		svc := services.NewAnalyticsService(pipeline, cfg.Analytics, middleware.NewValidator(), logger)

		dash, err := svc.Analyze(ctx, services.AnalyzeRequest{
			Filename: filepath.Base(path),
			Body:     f,
			TopLimit: analyzeTop,
		})
		if err != nil {
			return describeLoadError(err)
		}

		if analyzeXLSX != "" {
			if err := exporter.SaveWorkbook(analyzeXLSX, dash); err != nil {
				return apierrors.NewStorageError("write workbook", err).WithContext("path", analyzeXLSX)
			}
		}
		if analyzeCSVDir != "" {
			w := exporter.NewCSVWriter(logger)
			for _, series := range exporter.AllSeries {
				out := filepath.Join(analyzeCSVDir, string(series)+".csv")
				if err := w.WriteFile(out, exporter.TableOptions(dash, series)); err != nil {
					return apierrors.NewStorageError("write csv", err).WithContext("path", out)
				}
			}
		}

		if analyzeFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dash)
		}
		return printDashboard(cmd.OutOrStdout(), dash)
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "number of top products to list (0 = config default)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "output format: text or json")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "also write the dashboard to this xlsx file")
	analyzeCmd.Flags().StringVar(&analyzeCSVDir, "csv-dir", "", "also write one CSV per series into this directory")
	rootCmd.AddCommand(analyzeCmd)
}

// describeLoadError turns loader rejections into messages a person can act on.
// openSalesFile opens the input for reading. A failure is reported as a parsing error.
func openSalesFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewParsingError("open sales file", err).WithContext("path", path)
	}
	return f, nil
}

func describeLoadError(err error) error {
	var schemaErr *dataprocessing.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return fmt.Errorf("the file is missing required column(s): %s", strings.Join(schemaErr.Missing, ", "))
	case errors.Is(err, dataprocessing.ErrEmptyInput):
		return fmt.Errorf("the file contains no data rows: %w", err)
	default:
		return err
	}
}

func printDashboard(w io.Writer, dash domain.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Status:\t%s\n", dash.Status)
	fmt.Fprintf(tw, "Rows:\t%d read, %d kept, %d dropped\n",
		dash.Report.RowsRead, dash.Report.RowsKept, dash.Report.RowsDropped)
	if dash.Status == domain.StatusNoValidRows {
		fmt.Fprintln(tw, "\nNo rows passed validation; nothing to chart.")
		return tw.Flush()
	}

	fmt.Fprintf(tw, "\nTotal revenue:\t%s\n", domain.FormatCurrency(dash.Summary.TotalRevenue))
	fmt.Fprintf(tw, "Total quantity:\t%d\n", dash.Summary.TotalQuantity)
	fmt.Fprintf(tw, "Unique products:\t%d\n", dash.Summary.UniqueProducts)

	fmt.Fprintln(tw, "\nRevenue trend")
	for _, p := range dash.Trend {
		fmt.Fprintf(tw, "  %s\t%s\n", p.Period.Format(domain.OrderDateLayout), domain.FormatCurrency(p.Revenue))
	}

	fmt.Fprintf(tw, "\nTop %d products\n", dash.TopLimit)
	for i, p := range dash.TopProducts {
		fmt.Fprintf(tw, "  %d. %s\t%s\n", i+1, p.Product, domain.FormatCurrency(p.Revenue))
	}

	fmt.Fprintln(tw, "\nRevenue by region")
	for _, r := range dash.Regions {
		fmt.Fprintf(tw, "  %s\t%s\n", r.Region, domain.FormatCurrency(r.Revenue))
	}

	return tw.Flush()
}
