package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesdash/pkg/contracts/domain"
)

var (
	// ErrEmptyInput is returned when the input has no data rows.
	ErrEmptyInput = errors.New("input contains no data rows")
	// ErrUnsupportedFormat is returned for uploads that are neither CSV nor xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformedInput is returned when the file cannot be parsed at all.
	ErrMalformedInput = errors.New("malformed input")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SchemaError reports required columns absent from the header row.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// EmptyInputError distinguishes a zero-byte upload from a header-only one.
type EmptyInputError struct {
	HeaderOnly bool
}

func (e *EmptyInputError) Error() string {
	if e.HeaderOnly {
		return "file has a header row but no data rows"
	}
	return "file is empty"
}

// Unwrap lets callers match on ErrEmptyInput.
func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

// Load parses delimited text with a header row into raw records.
// Cells are kept as strings; typing happens in Preprocess.
func Load(r io.Reader) ([]domain.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &EmptyInputError{}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %w", ErrMalformedInput, err)
	}
	return fromRows(rows)
}

// LoadWorkbook reads the first sheet of an xlsx workbook with the same contract as Load.
func LoadWorkbook(r io.Reader) ([]domain.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) == 0 {
		return nil, &EmptyInputError{}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &EmptyInputError{}
	}
	sheet := sheets[0]
	// Raw values keep number formats such as "$#,##0.00" out of the cells.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	formatOrderDates(f, sheet, rows)
	return fromRows(dropBlankRows(rows))
}

// Built-in number format IDs that render a date or time.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// numFmtLiterals matches quoted text, bracketed sections and escaped characters in a format code.
var numFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// formatOrderDates rewrites date-styled serial numbers in the order_date column as
// YYYY-MM-DD. rows must come straight from GetRows so that index i is sheet row i+1.
func formatOrderDates(f *excelize.File, sheet string, rows [][]string) {
	header := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return
	}
	col := -1
	for i, h := range rows[header] {
		if normalizeColumn(h) == domain.ColumnOrderDate {
			col = i
			break
		}
	}
	if col < 0 {
		return
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	for r := header + 1; r < len(rows); r++ {
		if col >= len(rows[r]) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(rows[r][col]), 64)
		if err != nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, r+1)
		if err != nil || !isDateStyled(f, sheet, cell) {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			continue
		}
		rows[r][col] = t.Format(domain.OrderDateLayout)
	}
}

func isDateStyled(f *excelize.File, sheet, cell string) bool {
	id, err := f.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	style, err := f.GetStyle(id)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt) {
		return true
	}
	return builtInDateFormats[style.NumFmt]
}

// isDateFormatCode reports whether a custom format code has a year, day or month-name token.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(numFmtLiterals.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "yd") || strings.Contains(code, "mmm")
}

// LoadFile picks a loader from the file name extension.
func LoadFile(name string, r io.Reader) ([]domain.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		return Load(r)
	case ".xlsx":
		return LoadWorkbook(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// fromRows validates the header and maps each data row onto its column names.
func fromRows(rows [][]string) ([]domain.RawRecord, error) {
	if len(rows) == 0 {
		return nil, &EmptyInputError{}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeColumn(h)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}
	if len(rows) == 1 {
		return nil, &EmptyInputError{HeaderOnly: true}
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.RawRecord, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			// First occurrence wins for duplicated headers.
			if _, seen := rec[col]; seen {
				continue
			}
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

func normalizeColumn(h string) string {
	h = strings.TrimPrefix(h, string(utf8BOM))
	h = strings.ReplaceAll(h, `"`, "")
	return strings.ToLower(strings.TrimSpace(h))
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		if !isBlankRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
