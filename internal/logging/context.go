package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPage is the standardized structured logging key for page image paths.
	FieldPage = "page"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldRunID is the standardized structured logging key for run identifiers.
	FieldRunID = "run_id"
	// FieldEventType is the standardized structured logging key for machine-readable event names.
	FieldEventType = "event_type"
	// FieldDuration is the standardized structured logging key for elapsed stage durations.
	FieldDuration = "duration"
)

type contextKey int

const (
	pageContextKey contextKey = iota
	stageContextKey
	runIDContextKey
)

// WithPage returns a context carrying the page identifier for log enrichment.
func WithPage(ctx context.Context, page string) context.Context {
	return context.WithValue(ctx, pageContextKey, page)
}

// PageFromContext reports the page identifier stored in ctx, if any.
func PageFromContext(ctx context.Context) (string, bool) {
	page, ok := ctx.Value(pageContextKey).(string)
	return page, ok && page != ""
}

// WithStage returns a context carrying the pipeline stage name for log enrichment.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageContextKey, stage)
}

// StageFromContext reports the stage name stored in ctx, if any.
func StageFromContext(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(stageContextKey).(string)
	return stage, ok && stage != ""
}

// WithRunID returns a context carrying the run identifier for log enrichment.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext reports the run identifier stored in ctx, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDContextKey).(string)
	return runID, ok && runID != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if page, ok := PageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPage, page))
	}
	if stage, ok := StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if runID, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, runID))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
