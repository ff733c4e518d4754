// Package exporter writes a built dashboard to files people open elsewhere.
//
// CSVWriter writes a single table with an optional UTF-8 BOM so Excel detects
// the encoding. Table renders one dashboard series (summary, revenue trend, top
// products, region sales) as headers and rows. WriteWorkbook puts every series on
// its own sheet of an xlsx workbook, with a revenue trend chart.
//
// Example usage:
//
//	var buf bytes.Buffer
//	if err := exporter.WriteWorkbook(&buf, dash); err != nil {
//		return err
//	}
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteFile("out/trend.csv", exporter.TableOptions(dash, exporter.SeriesTrend))
//
// Money is written with two decimal places, dates as YYYY-MM-DD.
package exporter
