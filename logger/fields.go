package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging. Use these constants instead
// of raw strings so logs stay queryable.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Translation
	FieldModule     = "module"
	FieldFile       = "file"
	FieldAsync      = "async"
	FieldEntryPoint = "entry_point"
	FieldRuntime    = "runtime"
	FieldKind       = "kind"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldBytes = "bytes"

	// Cache
	FieldCacheHit = "cache_hit"
	FieldDigest   = "digest"

	// Files and paths
	FieldPath   = "path"
	FieldOutput = "output"
)

type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a translation run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context as key-value pairs
// suitable for Infow and friends.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	return fields
}

// LoggerFromContext returns the global logger with the context's fields.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Store struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func Open(path string) (*Store, error) {
//	    return &Store{logger: logger.ComponentLogger("cache")}, nil
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
