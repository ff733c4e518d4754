// Package services sits between the HTTP and CLI surfaces and the dashboard
// pipeline.
//
// AnalyticsService owns the outer-shell settings (default and maximum
// top-products limit, upload size) and hands the dataprocessing pipeline a
// fully resolved request. HealthService reports liveness and build information.
//
// Errors from the pipeline's loader pass through unchanged so transports can map
// schema and empty-input rejections to their own responses.
package services
