package stage

import (
	"context"
	"errors"
)

// ErrRetryBudget marks a retried action whose result never met the acceptance
// predicate within the attempt budget.
var ErrRetryBudget = errors.New("retry budget exhausted")

// Retry runs action up to maxAttempts times until accept returns true for its
// result. Action errors stop the loop immediately; only rejected results are
// retried. The attempt count of the final call is returned alongside the
// result for logging.
func Retry[T any](ctx context.Context, maxAttempts int, action func(context.Context) (T, error), accept func(T) bool) (T, int, error) {
	var zero T
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt, err
		}
		result, err := action(ctx)
		if err != nil {
			return zero, attempt, err
		}
		if accept(result) {
			return result, attempt, nil
		}
	}
	return zero, maxAttempts, ErrRetryBudget
}
