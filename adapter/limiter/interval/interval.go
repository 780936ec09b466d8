package interval

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type interval struct {
	lim *rate.Limiter
}

// New builds a limiter granting one request per gap. Burst stays at one so
// two acquisitions can never complete closer together than the gap, no
// matter which goroutines they come from.
func New(gap time.Duration) *interval {
	return &interval{lim: rate.NewLimiter(rate.Every(gap), 1)}
}

func (i *interval) Acquire(ctx context.Context) error {
	return i.lim.Wait(ctx)
}
