package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"salesdash/pkg/contracts/domain"
)

// Series names one table of a dashboard.
type Series string

const (
	SeriesSummary  Series = "summary"
	SeriesTrend    Series = "trend"
	SeriesProducts Series = "products"
	SeriesRegions  Series = "regions"
)

// AllSeries lists the series in workbook sheet order.
var AllSeries = []Series{SeriesSummary, SeriesTrend, SeriesProducts, SeriesRegions}

// ParseSeries accepts a series name in any case.
func ParseSeries(s string) (Series, error) {
	for _, series := range AllSeries {
		if strings.EqualFold(s, string(series)) {
			return series, nil
		}
	}
	return "", fmt.Errorf("unknown series %q", s)
}

// Table renders one series of dash as CSV headers and rows.
func Table(dash domain.Dashboard, series Series) ([]string, [][]string) {
	switch series {
	case SeriesSummary:
		return []string{"metric", "value"}, [][]string{
			{"total_revenue", formatMoney(dash.Summary.TotalRevenue)},
			{"total_quantity", formatInt(dash.Summary.TotalQuantity)},
			{"unique_products", strconv.Itoa(dash.Summary.UniqueProducts)},
		}
	case SeriesTrend:
		rows := make([][]string, 0, len(dash.Trend))
		for _, p := range dash.Trend {
			rows = append(rows, []string{formatDate(p.Period), formatMoney(p.Revenue)})
		}
		return []string{"period", "revenue"}, rows
	case SeriesProducts:
		rows := make([][]string, 0, len(dash.TopProducts))
		for i, p := range dash.TopProducts {
			rows = append(rows, []string{strconv.Itoa(i + 1), p.Product, formatMoney(p.Revenue)})
		}
		return []string{"rank", "product", "revenue"}, rows
	case SeriesRegions:
		rows := make([][]string, 0, len(dash.Regions))
		for _, r := range dash.Regions {
			rows = append(rows, []string{r.Region, formatMoney(r.Revenue)})
		}
		return []string{"region", "revenue"}, rows
	default:
		return nil, nil
	}
}

// TableOptions wraps Table as BOM-prefixed WriteOptions.
func TableOptions(dash domain.Dashboard, series Series) WriteOptions {
	headers, rows := Table(dash, series)
	return WriteOptions{Headers: headers, Records: rows, BOMPrefix: true}
}
