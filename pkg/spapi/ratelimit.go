package spapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/spapi/internal/metrics"
)

const rateLimitHeader = "x-amzn-RateLimit-Limit"

// Limit is a documented usage plan: sustained requests per second and burst.
type Limit struct {
	PerSecond float64
	Burst     int
}

// RateLimiter keeps one token bucket per API operation. Operations without a
// configured limit are not throttled.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter creates a limiter seeded with the given per-operation limits.
func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	r := &RateLimiter{limiters: make(map[string]*rate.Limiter, len(limits))}
	for op, l := range limits {
		r.limiters[op] = rate.NewLimiter(rate.Limit(l.PerSecond), burst(l))
	}
	return r
}

func burst(l Limit) int {
	if l.Burst < 1 {
		return 1
	}
	return l.Burst
}

// Wait blocks until operation may be called, or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, operation string) error {
	r.mu.Lock()
	lim, ok := r.limiters[operation]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	start := time.Now()
	err := lim.Wait(ctx)
	metrics.RateLimitWaitDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", operation, err)
	}
	return nil
}

// SetLimit replaces the sustained rate for operation, creating its bucket
// if needed.
func (r *RateLimiter) SetLimit(operation string, l Limit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[operation]
	if !ok {
		r.limiters[operation] = rate.NewLimiter(rate.Limit(l.PerSecond), burst(l))
		return
	}
	lim.SetLimit(rate.Limit(l.PerSecond))
	lim.SetBurst(burst(l))
}

// Observe adopts the rate advertised in a response's x-amzn-RateLimit-Limit
// header, which reflects the selling partner's actual usage plan. Responses
// without a parsable header are ignored.
func (r *RateLimiter) Observe(operation string, resp *http.Response) {
	if resp == nil {
		return
	}
	v := resp.Header.Get(rateLimitHeader)
	if v == "" {
		return
	}
	perSecond, err := strconv.ParseFloat(v, 64)
	if err != nil || perSecond <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[operation]
	if !ok {
		r.limiters[operation] = rate.NewLimiter(rate.Limit(perSecond), 1)
		return
	}
	lim.SetLimit(rate.Limit(perSecond))
}

// Limit returns the current sustained rate for operation and whether one is
// configured.
func (r *RateLimiter) Limit(operation string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[operation]
	if !ok {
		return 0, false
	}
	return float64(lim.Limit()), true
}
