// Package config loads salesdash configuration from environment variables and an
// optional YAML file.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML file: $SALESDASH_CONFIG, ./config.yaml or ./configs/config.yaml
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables use the SALESDASH_ prefix:
//
//	SALESDASH_SERVER_PORT=8080
//	SALESDASH_LOGGING_LEVEL=debug
//	SALESDASH_ANALYTICS_DEFAULT_TOP_LIMIT=10
//	SALESDASH_TELEMETRY_METRIC_EXPORTER=none
//
// # Analytics
//
// AnalyticsConfig carries the defaults the outer shell hands to the pipeline. The
// dashboard core itself reads no configuration; its only option is the top-products
// limit resolved here.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use Default(), which needs no environment.
package config
