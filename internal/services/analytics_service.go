package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"salesdash/internal/config"
	"salesdash/internal/dataprocessing"
	"salesdash/internal/exporter"
	"salesdash/pkg/contracts/domain"
)

// StructValidator validates tagged request structs.
type StructValidator interface {
	ValidateStruct(s interface{}) error
}

// AnalyzeRequest is one upload to turn into a dashboard.
type AnalyzeRequest struct {
	Filename string    `json:"filename" validate:"required,filename"`
	Body     io.Reader `json:"-"`
	// TopLimit of zero selects the configured default.
	TopLimit int `json:"top" validate:"gte=0"`
}

// AnalyticsService resolves outer-shell settings and runs the dashboard pipeline.
type AnalyticsService struct {
	pipeline  *dataprocessing.Pipeline
	cfg       config.AnalyticsConfig
	validator StructValidator
	logger    *slog.Logger
}

// NewAnalyticsService creates an analytics service. validator may be nil.
func NewAnalyticsService(pipeline *dataprocessing.Pipeline, cfg config.AnalyticsConfig, validator StructValidator, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		pipeline:  pipeline,
		cfg:       cfg,
		validator: validator,
		logger:    logger.With(slog.String("service", "analytics")),
	}
}

// DefaultTopLimit returns the configured top-products limit.
func (s *AnalyticsService) DefaultTopLimit() int {
	return s.cfg.DefaultTopLimit
}

// MaxTopLimit returns the largest accepted top-products limit.
func (s *AnalyticsService) MaxTopLimit() int {
	return s.cfg.MaxTopLimit
}

// MaxUploadBytes returns the upload size cap.
func (s *AnalyticsService) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// Analyze builds the dashboard for one upload. Loader rejections are returned
// unchanged so callers can tell schema and empty-input failures apart.
func (s *AnalyticsService) Analyze(ctx context.Context, req AnalyzeRequest) (domain.Dashboard, error) {
	if req.Body == nil {
		return domain.Dashboard{Status: domain.StatusAwaitingUpload}, ErrNoFile
	}
	if s.validator != nil {
		if err := s.validator.ValidateStruct(req); err != nil {
			return domain.Dashboard{}, err
		}
	}

	limit, err := s.resolveTopLimit(req.TopLimit)
	if err != nil {
		return domain.Dashboard{}, err
	}

	s.logger.DebugContext(ctx, "analyzing upload",
		slog.String("file", req.Filename),
		slog.Int("top_limit", limit))

	return s.pipeline.Run(ctx, req.Filename, req.Body, limit)
}

// ExportWorkbook analyzes the upload and writes the dashboard as xlsx to w.
func (s *AnalyticsService) ExportWorkbook(ctx context.Context, req AnalyzeRequest, w io.Writer) (domain.Dashboard, error) {
	dash, err := s.Analyze(ctx, req)
	if err != nil {
		return dash, err
	}
	if err := exporter.WriteWorkbook(w, dash); err != nil {
		return dash, fmt.Errorf("export workbook: %w", err)
	}
	return dash, nil
}

// ExportSeries analyzes the upload and writes one series as CSV to w.
func (s *AnalyticsService) ExportSeries(ctx context.Context, req AnalyzeRequest, series exporter.Series, w io.Writer) (domain.Dashboard, error) {
	dash, err := s.Analyze(ctx, req)
	if err != nil {
		return dash, err
	}
	if err := exporter.NewCSVWriter(s.logger).WriteCSV(w, exporter.TableOptions(dash, series)); err != nil {
		return dash, fmt.Errorf("export %s: %w", series, err)
	}
	return dash, nil
}

func (s *AnalyticsService) resolveTopLimit(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.DefaultTopLimit, nil
	}
	if requested < 0 || requested > s.cfg.MaxTopLimit {
		return 0, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidTopLimit, requested, s.cfg.MaxTopLimit)
	}
	return requested, nil
}
