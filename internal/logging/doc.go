// Package logging wraps log/slog construction and the standardized structured
// field names used across the pipeline.
package logging
