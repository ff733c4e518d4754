package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// NewRunID returns a fresh identifier for a pipeline run or request.
func NewRunID() string {
	return uuid.New().String()
}

// EnsureTraceID returns ctx carrying a trace ID, generating one if it has none.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, NewRunID())
	}
	return ctx
}
