package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salesdash/internal/dataprocessing"
	apierrors "salesdash/internal/errors"
	"salesdash/internal/exporter"
	"salesdash/internal/middleware"
	"salesdash/internal/services"
	"salesdash/pkg/contracts/domain"
)

const (
	uploadField     = "file"
	defaultFilename = "upload.csv"
	// multipartMemory is how much of a form is held in memory before spilling to disk.
	multipartMemory = 8 << 20
)

const (
	formatXLSX = "xlsx"
	formatCSV  = "csv"
)

// AnalyticsServiceInterface is the part of services.AnalyticsService the handler uses.
type AnalyticsServiceInterface interface {
	Analyze(ctx context.Context, req services.AnalyzeRequest) (domain.Dashboard, error)
	ExportWorkbook(ctx context.Context, req services.AnalyzeRequest, w io.Writer) (domain.Dashboard, error)
	ExportSeries(ctx context.Context, req services.AnalyzeRequest, series exporter.Series, w io.Writer) (domain.Dashboard, error)
	DefaultTopLimit() int
	MaxTopLimit() int
	MaxUploadBytes() int64
}

// AnalyticsHandler handles sales upload requests with RFC 7807 errors
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *middleware.QueryParamValidator
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.MaxBodySize(h.service.MaxUploadBytes()))

	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/upload", h.Upload)
	r.Post("/export", h.Export)

	return r
}

// Upload handles POST /api/analytics/upload
func (h *AnalyticsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	top, ok := h.query.ValidateInt(w, r, "top", 1, h.service.MaxTopLimit(), h.service.DefaultTopLimit())
	if !ok {
		return
	}

	req, err := h.readUpload(r)
	if err != nil {
		h.handleServiceError(w, r, req.Filename, err)
		return
	}
	req.TopLimit = top

	dash, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, req.Filename, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dashboard built",
		slog.String("file", req.Filename),
		slog.String("status", string(dash.Status)),
		slog.Int("rows_kept", dash.Report.RowsKept))

	render.JSON(w, r, dash)
}

// Export handles POST /api/analytics/export
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	top, ok := h.query.ValidateInt(w, r, "top", 1, h.service.MaxTopLimit(), h.service.DefaultTopLimit())
	if !ok {
		return
	}
	format, ok := h.query.ValidateEnum(w, r, "format", []string{formatXLSX, formatCSV}, formatXLSX)
	if !ok {
		return
	}
	seriesNames := make([]string, len(exporter.AllSeries))
	for i, s := range exporter.AllSeries {
		seriesNames[i] = string(s)
	}
	seriesName, ok := h.query.ValidateEnum(w, r, "series", seriesNames, string(exporter.SeriesTrend))
	if !ok {
		return
	}

	req, err := h.readUpload(r)
	if err != nil {
		h.handleServiceError(w, r, req.Filename, err)
		return
	}
	req.TopLimit = top

	// Buffer so a failed run still gets a problem response instead of a partial file.
	var buf bytes.Buffer
	var contentType, name string
	switch format {
	case formatCSV:
		series := exporter.Series(seriesName)
		_, err = h.service.ExportSeries(r.Context(), req, series, &buf)
		contentType = "text/csv; charset=utf-8"
		name = exportName(req.Filename, string(series), "csv")
	default:
		_, err = h.service.ExportWorkbook(r.Context(), req, &buf)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		name = exportName(req.Filename, "dashboard", "xlsx")
	}
	if err != nil {
		h.handleServiceError(w, r, req.Filename, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("error", err.Error()))
	}
}

// readUpload accepts a multipart form with a "file" field or a raw CSV body.
func (h *AnalyticsHandler) readUpload(r *http.Request) (services.AnalyzeRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return services.AnalyzeRequest{}, err
		}
		file, header, err := r.FormFile(uploadField)
		if errors.Is(err, http.ErrMissingFile) {
			return services.AnalyzeRequest{}, services.ErrNoFile
		}
		if err != nil {
			return services.AnalyzeRequest{}, err
		}
		return services.AnalyzeRequest{Filename: header.Filename, Body: file}, nil
	}

	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return services.AnalyzeRequest{}, services.ErrNoFile
	}
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = defaultFilename
	}
	return services.AnalyzeRequest{Filename: name, Body: r.Body}, nil
}

// handleServiceError maps loader and service errors onto API errors.
func (h *AnalyticsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, filename string, err error) {
	var (
		schemaErr *dataprocessing.SchemaError
		apiErr    *apierrors.APIError
	)

	switch {
	case errors.As(err, &apiErr):
		h.errorHandler.HandleError(w, r, apiErr)
	case middleware.IsBodyTooLarge(err):
		h.errorHandler.HandleError(w, r, apierrors.PayloadTooLarge(h.service.MaxUploadBytes()))
	case errors.Is(err, services.ErrNoFile):
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
	case errors.As(err, &schemaErr):
		h.errorHandler.HandleError(w, r, apierrors.SchemaMismatch(schemaErr.Missing))
	case errors.Is(err, dataprocessing.ErrEmptyInput):
		h.errorHandler.HandleError(w, r, apierrors.EmptyInput(capitalize(err.Error())))
	case errors.Is(err, dataprocessing.ErrUnsupportedFormat):
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormat(filename))
	case errors.Is(err, dataprocessing.ErrMalformedInput):
		h.errorHandler.HandleError(w, r, apierrors.MalformedInput(err))
	case errors.Is(err, services.ErrInvalidTopLimit):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("top", err.Error()))
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadField, "request is not a valid multipart form"))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func exportName(upload, part, ext string) string {
	base := strings.TrimSuffix(upload, filepath.Ext(upload))
	if base == "" {
		base = "sales"
	}
	return fmt.Sprintf("%s-%s-%s.%s", base, part, time.Now().UTC().Format("20060102"), ext)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
