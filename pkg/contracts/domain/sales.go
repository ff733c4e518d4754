package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Required input columns, in canonical order.
const (
	ColumnOrderDate = "order_date"
	ColumnProduct   = "product"
	ColumnRegion    = "region"
	ColumnQuantity  = "quantity"
	ColumnUnitPrice = "unit_price"
)

// RequiredColumns lists every column a sales export must carry.
var RequiredColumns = []string{
	ColumnOrderDate,
	ColumnProduct,
	ColumnRegion,
	ColumnQuantity,
	ColumnUnitPrice,
}

// OrderDateLayout is the accepted layout for the order_date column.
const OrderDateLayout = "2006-01-02"

// RawRecord is one input row keyed by normalized (trimmed, lower-cased) column name.
// Cell values are untouched strings; nothing is typed yet.
type RawRecord map[string]string

// Get returns the raw cell for a column, or "" when the row has no such cell.
func (r RawRecord) Get(column string) string {
	return r[column]
}

// SalesRecord is a fully typed, validated sales line.
type SalesRecord struct {
	OrderDate time.Time       `json:"order_date" validate:"required"`
	Product   string          `json:"product" validate:"required"`
	Region    string          `json:"region" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
	Revenue   decimal.Decimal `json:"revenue" validate:"min=0"`
}

// Dataset is the ordered collection of clean records flowing between stages.
type Dataset []SalesRecord

// Len returns the number of records.
func (d Dataset) Len() int { return len(d) }

// Clone returns a copy that shares no backing array with d.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// SummaryMetrics holds the headline numbers shown on the summary cards.
type SummaryMetrics struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalQuantity  int64           `json:"total_quantity"`
	UniqueProducts int             `json:"unique_products"`
}

// Equal reports whether two summaries carry the same values.
func (s SummaryMetrics) Equal(o SummaryMetrics) bool {
	return s.TotalRevenue.Equal(o.TotalRevenue) &&
		s.TotalQuantity == o.TotalQuantity &&
		s.UniqueProducts == o.UniqueProducts
}

// TrendPoint is the revenue booked on one calendar day.
type TrendPoint struct {
	Period  time.Time       `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductRevenue is a product rollup row.
type ProductRevenue struct {
	Product string          `json:"product"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RegionRevenue is a region rollup row.
type RegionRevenue struct {
	Region  string          `json:"region"`
	Revenue decimal.Decimal `json:"revenue"`
}
