package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salesdash/pkg/contracts/domain"
)

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetTrend    = "Revenue Trend"
	SheetProducts = "Top Products"
	SheetRegions  = "Region Sales"
)

var sheetFor = map[Series]string{
	SeriesSummary:  SheetSummary,
	SeriesTrend:    SheetTrend,
	SeriesProducts: SheetProducts,
	SeriesRegions:  SheetRegions,
}

const moneyFormat = "#,##0.00"

// WriteWorkbook writes every series of dash to w as an xlsx workbook.
func WriteWorkbook(w io.Writer, dash domain.Dashboard) error {
	f, err := buildWorkbook(dash)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, dash domain.Dashboard) error {
	f, err := buildWorkbook(dash)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(dash domain.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	fmtStr := moneyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for _, series := range AllSeries {
		sheet := sheetFor[series]
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, dash, series, headerStyle, moneyStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	if len(dash.Trend) > 0 {
		if err := addTrendChart(f, len(dash.Trend)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// writeSheet writes a series with numeric cells so spreadsheets can sum them.
func writeSheet(f *excelize.File, sheet string, dash domain.Dashboard, series Series, headerStyle, moneyStyle int) error {
	headers, _ := Table(dash, series)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	rows, moneyCol, moneyRows := sheetRows(dash, series)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	if moneyRows > 0 {
		first, _ := excelize.CoordinatesToCellName(moneyCol, 2)
		last, _ := excelize.CoordinatesToCellName(moneyCol, moneyRows+1)
		if err := f.SetCellStyle(sheet, first, last, moneyStyle); err != nil {
			return fmt.Errorf("failed to style %s values: %w", sheet, err)
		}
	}
	return nil
}

// sheetRows returns typed cell values, the 1-based column holding money and
// how many leading rows of that column are money. The summary sheet mixes money
// and counts in one column.
func sheetRows(dash domain.Dashboard, series Series) ([][]interface{}, int, int) {
	switch series {
	case SeriesSummary:
		return [][]interface{}{
			{"Total revenue", dash.Summary.TotalRevenue.InexactFloat64()},
			{"Total quantity", dash.Summary.TotalQuantity},
			{"Unique products", dash.Summary.UniqueProducts},
		}, 2, 1
	case SeriesTrend:
		rows := make([][]interface{}, 0, len(dash.Trend))
		for _, p := range dash.Trend {
			rows = append(rows, []interface{}{formatDate(p.Period), p.Revenue.InexactFloat64()})
		}
		return rows, 2, len(rows)
	case SeriesProducts:
		rows := make([][]interface{}, 0, len(dash.TopProducts))
		for i, p := range dash.TopProducts {
			rows = append(rows, []interface{}{i + 1, p.Product, p.Revenue.InexactFloat64()})
		}
		return rows, 3, len(rows)
	case SeriesRegions:
		rows := make([][]interface{}, 0, len(dash.Regions))
		for _, r := range dash.Regions {
			rows = append(rows, []interface{}{r.Region, r.Revenue.InexactFloat64()})
		}
		return rows, 2, len(rows)
	default:
		return nil, 0, 0
	}
}

func addTrendChart(f *excelize.File, points int) error {
	ref := fmt.Sprintf("'%s'!$%%s$2:$%%s$%d", SheetTrend, points+1)
	err := f.AddChart(SheetTrend, "D2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", SheetTrend),
			Categories: fmt.Sprintf(ref, "A", "A"),
			Values:     fmt.Sprintf(ref, "B", "B"),
		}},
		Title:  []excelize.RichTextRun{{Text: "Revenue over time"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return fmt.Errorf("failed to add trend chart: %w", err)
	}
	return nil
}
