package testutil

import (
	"strings"
)

// SalesHeader is the canonical header row of a sales export.
const SalesHeader = "order_date,product,region,quantity,unit_price"

// SalesCSV joins the header and rows into CSV text with a trailing newline.
func SalesCSV(rows ...string) string {
	var b strings.Builder
	b.WriteString(SalesHeader)
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// WidgetGadgetCSV is a small upload with two products on one day.
func WidgetGadgetCSV() string {
	return SalesCSV(
		"2024-01-01,Widget,North,2,10.00",
		"2024-01-01,Gadget,South,1,5.50",
		"2024-01-02,Widget,North,3,10.00",
	)
}

// MixedQualityCSV has two valid rows and four rows the preprocessor drops.
func MixedQualityCSV() string {
	return SalesCSV(
		"2024-02-01,Widget,North,2,10.00",
		"not-a-date,Widget,North,1,10.00",
		"2024-02-01,,North,1,10.00",
		"2024-02-01,Gadget,South,-1,5.00",
		"2024-02-01,Gadget,South,1,",
		"2024-02-02,Gadget,South,4,2.25",
	)
}
