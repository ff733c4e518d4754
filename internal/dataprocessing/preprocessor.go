package dataprocessing

import (
	"errors"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"salesdash/pkg/contracts/domain"
)

// Date-time layouts whose day part is accepted for order_date. The time of day is discarded.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var (
	errNegative = errors.New("negative value")
	errTooLarge = errors.New("value too large")
)

// Preprocessor turns raw rows into typed sales records, dropping rows that do not coerce.
type Preprocessor struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewPreprocessor creates a preprocessor. A nil logger falls back to slog.Default().
func NewPreprocessor(logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	// Decimal fields validate through their sign so "min=0" stays exact.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	return &Preprocessor{
		validate: v,
		logger:   logger.With(slog.String("component", "preprocessor")),
	}
}

var defaultPreprocessor = NewPreprocessor(slog.New(slog.DiscardHandler))

// Preprocess cleans rows with a non-logging preprocessor.
func Preprocess(rows []domain.RawRecord) domain.Dataset {
	ds, _ := defaultPreprocessor.Process(rows)
	return ds
}

// PreprocessWithReport is Preprocess plus the per-reason drop counts.
func PreprocessWithReport(rows []domain.RawRecord) (domain.Dataset, domain.PreprocessReport) {
	return defaultPreprocessor.Process(rows)
}

// Process coerces every row. Rows that fail any check are excluded, never zeroed or clamped.
// The input is not modified and surviving rows keep their relative order.
func (p *Preprocessor) Process(rows []domain.RawRecord) (domain.Dataset, domain.PreprocessReport) {
	report := domain.PreprocessReport{
		RowsRead:    len(rows),
		DropReasons: map[string]int{},
	}
	ds := make(domain.Dataset, 0, len(rows))

	for i, row := range rows {
		rec, reason := p.coerce(row)
		if reason != "" {
			report.DropReasons[reason]++
			// Line numbers count the header as line 1.
			p.logger.Debug("row dropped",
				slog.Int("line", i+2),
				slog.String("reason", reason))
			continue
		}
		ds = append(ds, rec)
	}

	report.RowsKept = len(ds)
	report.RowsDropped = report.RowsRead - report.RowsKept
	if len(report.DropReasons) == 0 {
		report.DropReasons = nil
	}
	return ds, report
}

// Reclean runs an already clean dataset back through the raw path.
// On clean input it returns an equal dataset.
func (p *Preprocessor) Reclean(d domain.Dataset) domain.Dataset {
	ds, _ := p.Process(ToRawRecords(d))
	return ds
}

// ToRawRecords renders records back into raw cells using the accepted input formats.
func ToRawRecords(d domain.Dataset) []domain.RawRecord {
	rows := make([]domain.RawRecord, 0, len(d))
	for _, r := range d {
		rows = append(rows, domain.RawRecord{
			domain.ColumnOrderDate: r.OrderDate.Format(domain.OrderDateLayout),
			domain.ColumnProduct:   r.Product,
			domain.ColumnRegion:    r.Region,
			domain.ColumnQuantity:  strconv.FormatInt(r.Quantity, 10),
			domain.ColumnUnitPrice: r.UnitPrice.String(),
		})
	}
	return rows
}

// coerce returns the typed record, or the name of the first failing check.
func (p *Preprocessor) coerce(row domain.RawRecord) (domain.SalesRecord, string) {
	date, err := parseOrderDate(row.Get(domain.ColumnOrderDate))
	if err != nil {
		return domain.SalesRecord{}, domain.DropReasonDate
	}

	product := strings.TrimSpace(row.Get(domain.ColumnProduct))
	if product == "" {
		return domain.SalesRecord{}, domain.DropReasonProduct
	}
	region := strings.TrimSpace(row.Get(domain.ColumnRegion))
	if region == "" {
		return domain.SalesRecord{}, domain.DropReasonRegion
	}

	qty, err := parseQuantity(row.Get(domain.ColumnQuantity))
	if errors.Is(err, errNegative) {
		return domain.SalesRecord{}, domain.DropReasonNegative
	}
	if err != nil {
		return domain.SalesRecord{}, domain.DropReasonQuantity
	}

	price, err := parseUnitPrice(row.Get(domain.ColumnUnitPrice))
	if errors.Is(err, errNegative) {
		return domain.SalesRecord{}, domain.DropReasonNegative
	}
	if err != nil {
		return domain.SalesRecord{}, domain.DropReasonUnitPrice
	}

	rec := domain.SalesRecord{
		OrderDate: date,
		Product:   product,
		Region:    region,
		Quantity:  qty,
		UnitPrice: price,
		Revenue:   decimal.NewFromInt(qty).Mul(price),
	}
	if err := p.validate.Struct(rec); err != nil {
		return domain.SalesRecord{}, failedField(err)
	}
	return rec, ""
}

// failedField maps a validator error onto a drop reason.
func failedField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "OrderDate":
			return domain.DropReasonDate
		case "Product":
			return domain.DropReasonProduct
		case "Region":
			return domain.DropReasonRegion
		}
	}
	return domain.DropReasonNegative
}

// parseOrderDate accepts YYYY-MM-DD, or a date-time whose calendar day is kept as written.
func parseOrderDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(domain.OrderDateLayout, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if dt, dtErr := time.Parse(layout, s); dtErr == nil {
			return truncateToDay(dt), nil
		}
	}
	return time.Time{}, err
}

// truncateToDay keeps the wall-clock date and drops time and zone.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MaxQuantity is the largest quantity a single row may carry.
const MaxQuantity int64 = 1_000_000_000_000

// parseQuantity accepts a base-10 integer up to MaxQuantity, or a decimal literal with
// an all-zero fraction.
func parseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d, decErr := parsePlainDecimal(s)
		if decErr != nil || !d.IsInteger() {
			return 0, err
		}
		if d.Abs().GreaterThan(decimal.NewFromInt(MaxQuantity)) {
			return 0, errTooLarge
		}
		n = d.IntPart()
	}
	if n < 0 {
		return 0, errNegative
	}
	if n > MaxQuantity {
		return 0, errTooLarge
	}
	return n, nil
}

// parseUnitPrice accepts plain decimal text.
func parseUnitPrice(s string) (decimal.Decimal, error) {
	d, err := parsePlainDecimal(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegative
	}
	return d, nil
}

// parsePlainDecimal rejects exponent notation, which decimal.NewFromString would accept.
func parsePlainDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, errors.New("empty value")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, errors.New("exponent notation not accepted")
	}
	return decimal.NewFromString(s)
}
