package dataprocessing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"salesdash/internal/infrastructure"
	"salesdash/pkg/contracts/domain"
)

// TracerName is the instrumentation scope for pipeline spans.
const TracerName = "salesdash.pipeline"

// Pipeline runs Loader, Preprocessor and Aggregator in sequence for one upload.
type Pipeline struct {
	logger       *slog.Logger
	preprocessor *Preprocessor
	tracer       trace.Tracer
	metrics      *infrastructure.PipelineMetrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// WithMetrics records run and stage metrics.
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// NewPipeline creates a pipeline. A nil logger falls back to slog.Default().
func NewPipeline(logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger:       logger.With(slog.String("component", "pipeline")),
		preprocessor: NewPreprocessor(logger),
		tracer:       otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the named upload, cleans it and builds the dashboard with the given
// top-products limit. Loader failures abort the run and are returned unchanged.
func (p *Pipeline) Run(ctx context.Context, name string, r io.Reader, limit int) (domain.Dashboard, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("pipeline.file", name),
			attribute.Int("pipeline.top_limit", limit),
		))
	defer span.End()
	start := time.Now()

	var rows []domain.RawRecord
	err := p.stage(ctx, "load", func(context.Context) error {
		var loadErr error
		rows, loadErr = LoadFile(name, r)
		return loadErr
	})
	if err != nil {
		p.reject(ctx, name, err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordError(ctx, err)
		p.finish(ctx, start, "rejected")
		return domain.Dashboard{}, err
	}

	var (
		ds     domain.Dataset
		report domain.PreprocessReport
	)
	_ = p.stage(ctx, "preprocess", func(context.Context) error {
		ds, report = p.preprocessor.Process(rows)
		return nil
	})
	p.logger.InfoContext(ctx, "preprocessing complete",
		slog.String("file", name),
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_kept", report.RowsKept),
		slog.Int("rows_dropped", report.RowsDropped))
	if p.metrics != nil {
		p.metrics.RowsRead.Add(ctx, int64(report.RowsRead))
		p.metrics.RowsDropped.Add(ctx, int64(report.RowsDropped))
	}

	var dash domain.Dashboard
	err = p.stage(ctx, "aggregate", func(ctx context.Context) error {
		var aggErr error
		dash, aggErr = BuildDashboard(ctx, ds, limit)
		return aggErr
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.finish(ctx, start, "failed")
		return domain.Dashboard{}, err
	}

	dash.RunID = runID
	dash.Report = report
	span.SetAttributes(attribute.String("pipeline.status", string(dash.Status)))
	p.finish(ctx, start, string(dash.Status))
	return dash, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.stage."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if p.metrics != nil {
		p.metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", name)))
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *Pipeline) reject(ctx context.Context, name string, err error) {
	reason := "unreadable"
	var schemaErr *SchemaError
	switch {
	case errors.As(err, &schemaErr):
		reason = "schema"
	case errors.Is(err, ErrEmptyInput):
		reason = "empty"
	case errors.Is(err, ErrUnsupportedFormat):
		reason = "format"
	case errors.Is(err, ErrMalformedInput):
		reason = "malformed"
	}

	p.logger.WarnContext(ctx, "input rejected",
		slog.String("file", name),
		slog.String("reason", reason),
		slog.String("error", err.Error()))
	if p.metrics != nil {
		p.metrics.RejectedInputs.Add(ctx, 1,
			metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (p *Pipeline) finish(ctx context.Context, start time.Time, outcome string) {
	if p.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	p.metrics.RunsTotal.Add(ctx, 1, attrs)
	p.metrics.RunDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}
