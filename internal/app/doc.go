// Package app wires the sales dashboard server together.
//
// NewApplication takes a loaded configuration, initializes logging and
// OpenTelemetry, builds the analytics pipeline with its metrics, and mounts the
// HTTP handlers behind the middleware chain:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer → SecurityHeaders → RateLimiter
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	a, err := app.NewApplication(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes telemetry. Errors are returned, never
// turned into os.Exit calls.
package app
