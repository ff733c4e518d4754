package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"salesdash/internal/config"
)

func telemetryConfig(traces, metrics string) config.TelemetryConfig {
	return config.TelemetryConfig{
		Environment:    "test",
		TraceExporter:  traces,
		MetricExporter: metrics,
		SampleRatio:    1.0,
	}
}

func TestInitializeOTel_Exporters(t *testing.T) {
	tests := []struct {
		name       string
		traces     string
		metrics    string
		wantTracer bool
		wantErr    string
	}{
		{name: "all disabled", traces: "none", metrics: "none"},
		{name: "empty means disabled", traces: "", metrics: ""},
		{name: "stdout traces", traces: "stdout", metrics: "none", wantTracer: true},
		{name: "unknown trace exporter", traces: "jaeger", metrics: "none", wantErr: "unsupported trace exporter"},
		{name: "unknown metric exporter", traces: "none", metrics: "statsd", wantErr: "unsupported metric exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(telemetryConfig(tt.traces, tt.metrics), NewLogger(io.Discard, "error"))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Nil(t, providers.MeterProvider)
			assert.Nil(t, providers.PrometheusHTTP)
			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
		})
	}
}

func TestInitializeOTel_Prometheus(t *testing.T) {
	providers, err := InitializeOTel(telemetryConfig("none", "prometheus"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.PrometheusHTTP)

	pm, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	pm.RunsTotal.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", "ready")))

	hm, err := CreateHTTPMetrics(providers.Meter)
	require.NoError(t, err)
	hm.RequestsTotal.Add(context.Background(), 1)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "salesdash_pipeline_runs_total")
	assert.Contains(t, body, `outcome="ready"`)
	assert.Contains(t, body, "salesdash_http_requests_total")
}

func TestCreateMetrics_Noop(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	pm, err := CreatePipelineMetrics(meter)
	require.NoError(t, err)
	assert.NotNil(t, pm.RunsTotal)
	assert.NotNil(t, pm.RunDuration)
	assert.NotNil(t, pm.RowsRead)
	assert.NotNil(t, pm.RowsDropped)
	assert.NotNil(t, pm.RejectedInputs)
	assert.NotNil(t, pm.StageDuration)

	hm, err := CreateHTTPMetrics(meter)
	require.NoError(t, err)
	assert.NotNil(t, hm.RequestsTotal)
	assert.NotNil(t, hm.RequestDuration)
	assert.NotNil(t, hm.ActiveRequests)
}

func TestShutdown_Empty(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, (&OTelProviders{}).Shutdown(ctx))
}

func TestRecordError_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), errors.New("boom"))
		RecordError(context.Background(), nil)
	})
}
