package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salesdash/internal/errors"
	"salesdash/internal/shared/testutil"
)

type uploadRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	TopLimit int    `json:"top" validate:"min=1,max=100"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		req        uploadRequest
		wantFields []string
	}{
		{name: "valid", req: uploadRequest{Filename: "sales.csv", TopLimit: 5}},
		{name: "missing filename", req: uploadRequest{TopLimit: 5}, wantFields: []string{"filename"}},
		{name: "path traversal", req: uploadRequest{Filename: "../sales.csv", TopLimit: 5}, wantFields: []string{"filename"}},
		{name: "zero limit", req: uploadRequest{Filename: "sales.csv"}, wantFields: []string{"top"}},
		{name: "both invalid", req: uploadRequest{Filename: "a/b.csv", TopLimit: 101}, wantFields: []string{"filename", "top"}},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)
			fields := make([]string, 0, len(details))
			for _, d := range details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestQueryParamValidator_ValidateInt(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   int
		wantOK bool
	}{
		{name: "default when absent", query: "", want: 5, wantOK: true},
		{name: "in range", query: "?top=10", want: 10, wantOK: true},
		{name: "lower bound", query: "?top=1", want: 1, wantOK: true},
		{name: "zero", query: "?top=0"},
		{name: "too large", query: "?top=101"},
		{name: "not a number", query: "?top=five"},
		{name: "trailing garbage", query: "?top=5x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/analytics/upload"+tt.query, nil)
			got, ok := v.ValidateInt(rec, req, "top", 1, 100, 5)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, apierrors.TypeValidation, body["type"])
		})
	}
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))
	allowed := []string{"xlsx", "csv"}

	got, ok := v.ValidateEnum(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?format=CSV", nil), "format", allowed, "xlsx")
	assert.True(t, ok)
	assert.Equal(t, "csv", got)

	got, ok = v.ValidateEnum(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "format", allowed, "xlsx")
	assert.True(t, ok)
	assert.Equal(t, "xlsx", got)

	rec := httptest.NewRecorder()
	_, ok = v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/?format=pdf", nil), "format", allowed, "xlsx")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
