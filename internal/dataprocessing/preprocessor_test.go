package dataprocessing

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/shared/testutil"
	"salesdash/pkg/contracts/domain"
)

func rawRow(date, product, region, qty, price string) domain.RawRecord {
	return domain.RawRecord{
		domain.ColumnOrderDate: date,
		domain.ColumnProduct:   product,
		domain.ColumnRegion:    region,
		domain.ColumnQuantity:  qty,
		domain.ColumnUnitPrice: price,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreprocess_Coercion(t *testing.T) {
	tests := []struct {
		name        string
		row         domain.RawRecord
		wantKept    bool
		wantReason  string
		wantDate    time.Time
		wantQty     int64
		wantRevenue string
	}{
		{
			name:        "plain row",
			row:         rawRow("2024-01-01", "Widget", "North", "2", "10.00"),
			wantKept:    true,
			wantDate:    day(2024, 1, 1),
			wantQty:     2,
			wantRevenue: "20",
		},
		{
			name:        "date-time keeps the written day",
			row:         rawRow("2024-01-01T23:30:00-05:00", "Widget", "North", "1", "1"),
			wantKept:    true,
			wantDate:    day(2024, 1, 1),
			wantQty:     1,
			wantRevenue: "1",
		},
		{
			name:        "space separated date-time",
			row:         rawRow("2024-03-05 08:15:00", "Widget", "North", "1", "1"),
			wantKept:    true,
			wantDate:    day(2024, 3, 5),
			wantQty:     1,
			wantRevenue: "1",
		},
		{
			name:        "surrounding whitespace trimmed",
			row:         rawRow(" 2024-01-01 ", "  Widget ", " North", " 3 ", " 0.10 "),
			wantKept:    true,
			wantDate:    day(2024, 1, 1),
			wantQty:     3,
			wantRevenue: "0.3",
		},
		{
			name:        "integral decimal quantity",
			row:         rawRow("2024-01-01", "Widget", "North", "4.0", "2.5"),
			wantKept:    true,
			wantDate:    day(2024, 1, 1),
			wantQty:     4,
			wantRevenue: "10",
		},
		{
			name:        "zero quantity and price are valid",
			row:         rawRow("2024-01-01", "Widget", "North", "0", "0"),
			wantKept:    true,
			wantDate:    day(2024, 1, 1),
			wantQty:     0,
			wantRevenue: "0",
		},
		{name: "bad date", row: rawRow("01/02/2024", "Widget", "North", "1", "1"), wantReason: domain.DropReasonDate},
		{name: "impossible date", row: rawRow("2024-02-30", "Widget", "North", "1", "1"), wantReason: domain.DropReasonDate},
		{name: "empty date", row: rawRow("", "Widget", "North", "1", "1"), wantReason: domain.DropReasonDate},
		{name: "blank product", row: rawRow("2024-01-01", "   ", "North", "1", "1"), wantReason: domain.DropReasonProduct},
		{name: "blank region", row: rawRow("2024-01-01", "Widget", "", "1", "1"), wantReason: domain.DropReasonRegion},
		{name: "fractional quantity", row: rawRow("2024-01-01", "Widget", "North", "1.5", "1"), wantReason: domain.DropReasonQuantity},
		{name: "text quantity", row: rawRow("2024-01-01", "Widget", "North", "two", "1"), wantReason: domain.DropReasonQuantity},
		{
			name:        "quantity at the per-row limit",
			row:         rawRow("2024-01-01", "Widget", "North", "1000000000000", "0.01"),
			wantKept:    true,
			wantDate:    day(2024, 1, 1),
			wantQty:     MaxQuantity,
			wantRevenue: "10000000000",
		},
		{name: "quantity above the limit", row: rawRow("2024-01-01", "Widget", "North", "1000000000001", "1"), wantReason: domain.DropReasonQuantity},
		{name: "max int64 quantity", row: rawRow("2024-01-01", "Widget", "North", "9223372036854775807", "0"), wantReason: domain.DropReasonQuantity},
		{name: "quantity beyond int64", row: rawRow("2024-01-01", "Widget", "North", "99999999999999999999", "1"), wantReason: domain.DropReasonQuantity},
		{name: "huge decimal quantity", row: rawRow("2024-01-01", "Widget", "North", "5000000000000.0", "1"), wantReason: domain.DropReasonQuantity},
		{name: "negative quantity", row: rawRow("2024-01-01", "Widget", "North", "-1", "1"), wantReason: domain.DropReasonNegative},
		{name: "negative price", row: rawRow("2024-01-01", "Widget", "North", "1", "-0.01"), wantReason: domain.DropReasonNegative},
		{name: "empty price", row: rawRow("2024-01-01", "Widget", "North", "1", ""), wantReason: domain.DropReasonUnitPrice},
		{name: "exponent price", row: rawRow("2024-01-01", "Widget", "North", "1", "1e3"), wantReason: domain.DropReasonUnitPrice},
		{name: "currency symbol", row: rawRow("2024-01-01", "Widget", "North", "1", "$5.00"), wantReason: domain.DropReasonUnitPrice},
		{name: "missing cells", row: domain.RawRecord{domain.ColumnOrderDate: "2024-01-01"}, wantReason: domain.DropReasonProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, report := PreprocessWithReport([]domain.RawRecord{tt.row})
			assert.Equal(t, 1, report.RowsRead)

			if !tt.wantKept {
				assert.Empty(t, ds)
				assert.Equal(t, 1, report.RowsDropped)
				assert.Equal(t, map[string]int{tt.wantReason: 1}, report.DropReasons)
				return
			}

			require.Len(t, ds, 1)
			rec := ds[0]
			assert.True(t, tt.wantDate.Equal(rec.OrderDate), "date = %v", rec.OrderDate)
			assert.Equal(t, tt.wantQty, rec.Quantity)
			assert.True(t, decimal.RequireFromString(tt.wantRevenue).Equal(rec.Revenue),
				"revenue = %s", rec.Revenue)
			assert.Equal(t, strings.TrimSpace(tt.row.Get(domain.ColumnProduct)), rec.Product)
			assert.Nil(t, report.DropReasons)
		})
	}
}

func TestPreprocess_RevenueIsExact(t *testing.T) {
	rows := make([]domain.RawRecord, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, rawRow("2024-01-01", "Penny", "North", "1", "0.10"))
	}
	ds := Preprocess(rows)
	require.Len(t, ds, 10)

	assert.True(t, decimal.NewFromInt(1).Equal(Summarize(ds).TotalRevenue))
}

func TestPreprocess_MixedQuality(t *testing.T) {
	rows, err := Load(strings.NewReader(testutil.MixedQualityCSV()))
	require.NoError(t, err)

	ds, report := PreprocessWithReport(rows)

	require.Len(t, ds, 2)
	assert.Equal(t, "Widget", ds[0].Product)
	assert.Equal(t, "Gadget", ds[1].Product)
	assert.Equal(t, domain.PreprocessReport{
		RowsRead:    6,
		RowsKept:    2,
		RowsDropped: 4,
		DropReasons: map[string]int{
			domain.DropReasonDate:      1,
			domain.DropReasonProduct:   1,
			domain.DropReasonNegative:  1,
			domain.DropReasonUnitPrice: 1,
		},
	}, report)
}

func TestPreprocess_DoesNotMutateInput(t *testing.T) {
	rows := []domain.RawRecord{
		rawRow(" 2024-01-01 ", " Widget ", "North", "1", "1.00"),
	}
	Preprocess(rows)
	assert.Equal(t, " Widget ", rows[0].Get(domain.ColumnProduct))
	assert.Equal(t, " 2024-01-01 ", rows[0].Get(domain.ColumnOrderDate))
}

func TestPreprocess_EmptyInput(t *testing.T) {
	ds, report := PreprocessWithReport(nil)
	assert.Empty(t, ds)
	assert.NotNil(t, ds)
	assert.Equal(t, 0, report.RowsRead)
}

func TestPreprocessor_RecleanIsIdempotent(t *testing.T) {
	rows, err := Load(strings.NewReader(testutil.WidgetGadgetCSV()))
	require.NoError(t, err)

	p := NewPreprocessor(nil)
	first, _ := p.Process(rows)
	second := p.Reclean(first)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].OrderDate.Equal(second[i].OrderDate))
		assert.Equal(t, first[i].Product, second[i].Product)
		assert.Equal(t, first[i].Region, second[i].Region)
		assert.Equal(t, first[i].Quantity, second[i].Quantity)
		assert.True(t, first[i].UnitPrice.Equal(second[i].UnitPrice))
		assert.True(t, first[i].Revenue.Equal(second[i].Revenue))
	}
}

func TestPreprocessor_LogsDroppedRows(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	p := NewPreprocessor(logger)

	p.Process([]domain.RawRecord{
		rawRow("2024-01-01", "Widget", "North", "1", "1"),
		rawRow("bad", "Widget", "North", "1", "1"),
	})

	testutil.AssertLogContains(t, handler, slog.LevelDebug, "row dropped")
	testutil.AssertLogAttr(t, handler, "line", int64(3))
	testutil.AssertLogAttr(t, handler, "reason", domain.DropReasonDate)
}
