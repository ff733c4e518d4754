package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/pkg/contracts/domain"
)

// formatMoney formats a revenue or price with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatDate(t time.Time) string {
	return t.Format(domain.OrderDateLayout)
}
