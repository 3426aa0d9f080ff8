package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing source artifact, e.g. a video without a
	// subtitle in the requested language. Stages treat it as a recoverable
	// skip, not a failure.
	ErrNotFound = errors.New("not found")
	// ErrProducer marks an external collaborator failure. The item is logged
	// and skipped unless the stage aborts on first failure.
	ErrProducer = errors.New("producer failure")
	// ErrQualityThreshold marks a summary that failed the density check after
	// the retry budget was exhausted. Item-level fatal; the run continues.
	ErrQualityThreshold = errors.New("quality threshold unmet")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProducer
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsSkip reports whether a producer error should be logged as a skip rather
// than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
