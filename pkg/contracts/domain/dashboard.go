package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DashboardStatus tells the renderer which of its states to draw.
type DashboardStatus string

const (
	// StatusAwaitingUpload means no file has been provided yet.
	StatusAwaitingUpload DashboardStatus = "awaiting_upload"
	// StatusNoValidRows means a file was accepted but no row survived cleaning.
	StatusNoValidRows DashboardStatus = "no_valid_rows"
	// StatusReady means the dashboard has data to plot.
	StatusReady DashboardStatus = "ready"
)

// Drop reasons reported by the preprocessor.
const (
	DropReasonDate      = "order_date"
	DropReasonProduct   = "product"
	DropReasonRegion    = "region"
	DropReasonQuantity  = "quantity"
	DropReasonUnitPrice = "unit_price"
	DropReasonNegative  = "negative"
)

// PreprocessReport counts what happened to the raw rows during cleaning.
type PreprocessReport struct {
	RowsRead    int            `json:"rows_read"`
	RowsKept    int            `json:"rows_kept"`
	RowsDropped int            `json:"rows_dropped"`
	DropReasons map[string]int `json:"drop_reasons,omitempty"`
}

// Dashboard bundles every chart input for one pipeline run.
type Dashboard struct {
	RunID       string           `json:"run_id,omitempty"`
	Status      DashboardStatus  `json:"status"`
	Summary     SummaryMetrics   `json:"summary"`
	Trend       []TrendPoint     `json:"revenue_trend"`
	TopProducts []ProductRevenue `json:"top_products"`
	TopLimit    int              `json:"top_limit"`
	Regions     []RegionRevenue  `json:"region_sales"`
	Report      PreprocessReport `json:"preprocess"`
}

// MarshalJSON renders the period as a plain calendar date.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period  string          `json:"period"`
		Revenue decimal.Decimal `json:"revenue"`
	}{
		Period:  p.Period.Format(OrderDateLayout),
		Revenue: p.Revenue,
	})
}

// FormatCurrency renders an amount as dollars with thousands separators and two
// decimals, e.g. "$1,234.56". Halves round away from zero.
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Sign() < 0 && fixed != "0.00" {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
