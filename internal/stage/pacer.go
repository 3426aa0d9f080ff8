package stage

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer throttles successive production attempts. Implementations block until
// the next attempt may proceed.
type Pacer interface {
	Wait(ctx context.Context) error
}

type ratePacer struct {
	limiter *rate.Limiter
}

func (p *ratePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NewRatePacer builds a pacer that allows one production attempt per interval,
// with the first attempt passing immediately. A non-positive interval yields
// an unthrottled pacer.
func NewRatePacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return nil
	}
	return &ratePacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}
