package internal

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// window is Reddit's ratelimit accounting period.
const window = 600 * time.Second

// Ratelimiter maintains a virtual 600-second window synchronized with
// Reddit's X-Ratelimit-* response headers and computes the earliest time the
// next request on this client may issue. It is shared by every request a
// single OAuth/Authed client makes, and delay+send+update is meant to be
// atomic with respect to its mutex: Lock holds the mutex across the caller's
// transport round trip so concurrent callers queue and each observes the
// header state left by the request ahead of it.
type Ratelimiter struct {
	mu            sync.Mutex
	remaining     float64
	used          uint64
	nextRequestAt time.Time
	nextResetAt   time.Time
	logger        *slog.Logger
}

// NewRatelimiter builds a Ratelimiter with no prior header state; the first
// request it guards issues immediately.
func NewRatelimiter(logger *slog.Logger) *Ratelimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ratelimiter{logger: logger}
}

// Lock acquires the ratelimiter for the duration of one delay+send+update
// cycle. Callers MUST call the returned unlock func exactly once.
func (r *Ratelimiter) Lock() func() {
	r.mu.Lock()
	return r.mu.Unlock
}

// Delay blocks the caller (while holding the lock) until now >=
// nextRequestAt, or until ctx is cancelled.
func (r *Ratelimiter) Delay(ctx context.Context) error {
	wait := time.Until(r.nextRequestAt)
	if wait <= 0 {
		return nil
	}
	r.logger.DebugContext(ctx, "ratelimiter waiting", slog.Duration("wait", wait))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update recomputes nextRequestAt from the response headers, spreading the
// remaining allowance evenly over the rest of the window and clamping any
// catch-up delay to 10s. Absence of X-Ratelimit-Remaining means no
// header was sent at all (e.g. the token endpoint); treat it as a pessimistic
// single request consumed.
func (r *Ratelimiter) Update(headers http.Header) {
	now := time.Now()

	remainingStr := headers.Get("X-Ratelimit-Remaining")
	if remainingStr == "" {
		r.remaining--
		r.used++
		return
	}

	remaining, err := strconv.ParseFloat(remainingStr, 64)
	if err != nil {
		return
	}
	used, _ := strconv.ParseUint(headers.Get("X-Ratelimit-Used"), 10, 64)
	resetSeconds, _ := strconv.ParseFloat(headers.Get("X-Ratelimit-Reset"), 64)

	r.remaining = remaining
	r.used = used
	r.nextResetAt = now.Add(time.Duration(resetSeconds * float64(time.Second)))

	if remaining <= 0 {
		r.nextRequestAt = r.nextResetAt
		return
	}

	allowed := remaining + float64(used)
	if allowed <= 0 {
		r.nextRequestAt = now
		return
	}
	avgSpacing := float64(window) / allowed
	usedWindow := avgSpacing * float64(used)
	extra := resetSeconds*float64(time.Second) - (float64(window) - usedWindow)
	delay := clamp(extra, 0, float64(10*time.Second))

	candidate := now.Add(time.Duration(delay))
	if candidate.After(r.nextResetAt) {
		candidate = r.nextResetAt
	}
	r.nextRequestAt = candidate

	r.logger.Debug("ratelimiter updated",
		slog.Float64("remaining", remaining),
		slog.Uint64("used", used),
		slog.Duration("next_delay", time.Duration(delay)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
