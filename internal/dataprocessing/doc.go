// Package dataprocessing turns an uploaded sales export into the values behind the
// dashboard charts.
//
// # Architecture
//
// Three stages run in strict sequence, each a pure function of its input:
//
//  1. Loader: reads CSV (or xlsx) with a header row into RawRecords and rejects
//     files missing a required column or carrying no data rows
//  2. Preprocessor: coerces each row into a SalesRecord, excluding rows that fail
//     any check, and derives revenue with decimal arithmetic
//  3. Aggregator: summary metrics, daily revenue trend, top products and region
//     rollups
//
// # Usage
//
//	rows, err := dataprocessing.Load(file)
//	if err != nil {
//	    return err // *SchemaError or ErrEmptyInput
//	}
//	ds := dataprocessing.Preprocess(rows)
//	summary := dataprocessing.Summarize(ds)
//	top := dataprocessing.TopProducts(ds, 5)
//
// Pipeline wraps the three stages with logging, tracing and metrics:
//
//	p := dataprocessing.NewPipeline(logger)
//	dash, err := p.Run(ctx, "sales.csv", file, 5)
//
// # Input format
//
// Required columns (any order, case-insensitive): order_date, product, region,
// quantity, unit_price. Dates are YYYY-MM-DD; a trailing time of day is accepted
// and discarded. Quantities are non-negative integers; unit prices are
// non-negative plain decimals.
//
// # Error Handling
//
// Only the Loader fails. Row-level problems shrink the dataset instead, and every
// aggregation has a defined result for an empty dataset.
package dataprocessing
