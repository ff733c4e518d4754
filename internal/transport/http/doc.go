// Package http exposes the sales dashboard over HTTP.
//
// Handlers stay thin: they read the upload and query parameters, call the
// analytics service and render either the dashboard JSON or an RFC 7807 problem.
//
// # Endpoints
//
//	POST /api/analytics/upload?top=N          multipart field "file", or a raw CSV body
//	POST /api/analytics/export?format=xlsx    same input, returns a workbook
//	POST /api/analytics/export?format=csv&series=products
//	GET  /api/health
//	GET  /api/health/live
//	GET  /api/version
//
// # Error Handling
//
// Loader rejections become problems the dashboard can show next to the upload
// control:
//
//	{
//	    "type": "/errors/sales/schema",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "Sales file is missing required column(s): [unit_price]",
//	    "instance": "/api/analytics/upload",
//	    "error_code": "SCHEMA_MISMATCH",
//	    "missing_columns": ["unit_price"],
//	    "trace_id": "..."
//	}
//
// A file that parses but yields no valid rows is not an error; the dashboard
// comes back with status "no_valid_rows".
package http
