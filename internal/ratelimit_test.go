package internal

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headers(remaining, used, reset string) http.Header {
	h := http.Header{}
	if remaining != "" {
		h.Set("X-Ratelimit-Remaining", remaining)
	}
	if used != "" {
		h.Set("X-Ratelimit-Used", used)
	}
	if reset != "" {
		h.Set("X-Ratelimit-Reset", reset)
	}
	return h
}

func TestRatelimiter_DelayIsImmediateWithNoPriorState(t *testing.T) {
	rl := NewRatelimiter(nil)
	start := time.Now()
	require.NoError(t, rl.Delay(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRatelimiter_AbsentRemainingHeaderDecrementsPessimistically(t *testing.T) {
	rl := NewRatelimiter(nil)
	rl.remaining = 5
	rl.used = 1
	rl.Update(http.Header{})
	assert.Equal(t, float64(4), rl.remaining)
	assert.Equal(t, uint64(2), rl.used)
}

func TestRatelimiter_RemainingZeroForcesWaitUntilReset(t *testing.T) {
	rl := NewRatelimiter(nil)
	rl.Update(headers("0", "60", "120"))
	assert.True(t, rl.nextRequestAt.Equal(rl.nextResetAt))
}

func TestRatelimiter_SmoothedSpacingClampedToTenSeconds(t *testing.T) {
	rl := NewRatelimiter(nil)
	// allowed = 1 + 599 = 600, avgSpacing = 1s, usedWindow = 599s,
	// extra = 590 - 600 + 599 = 589s, far past the 10s clamp ceiling.
	rl.Update(headers("1", "599", "590"))
	wait := time.Until(rl.nextRequestAt)
	assert.LessOrEqual(t, wait, 10*time.Second+time.Second)
	assert.GreaterOrEqual(t, wait, 9*time.Second)
}

func TestRatelimiter_NextRequestNeverExceedsReset(t *testing.T) {
	rl := NewRatelimiter(nil)
	rl.Update(headers("1", "598", "1"))
	assert.False(t, rl.nextRequestAt.After(rl.nextResetAt))
}

func TestRatelimiter_MonotonicAcrossDecreasingRemaining(t *testing.T) {
	rl := NewRatelimiter(nil)
	var prev time.Time
	for _, remaining := range []string{"60", "40", "20", "5"} {
		rl.Update(headers(remaining, "10", "300"))
		assert.False(t, rl.nextRequestAt.Before(prev), "next_request_at must be monotonically non-decreasing")
		prev = rl.nextRequestAt
	}
}

func TestRatelimiter_DelayBlocksUntilNextRequestAt(t *testing.T) {
	rl := NewRatelimiter(nil)
	rl.nextRequestAt = time.Now().Add(100 * time.Millisecond)
	start := time.Now()
	require.NoError(t, rl.Delay(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRatelimiter_DelayRespectsContextCancellation(t *testing.T) {
	rl := NewRatelimiter(nil)
	rl.nextRequestAt = time.Now().Add(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rl.Delay(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRatelimiter_LockSerializesConcurrentCallers(t *testing.T) {
	rl := NewRatelimiter(nil)
	var order []int
	done := make(chan struct{})
	go func() {
		unlock := rl.Lock()
		time.Sleep(20 * time.Millisecond)
		order = append(order, 1)
		unlock()
		done <- struct{}{}
	}()
	time.Sleep(5 * time.Millisecond)
	unlock := rl.Lock()
	order = append(order, 2)
	unlock()
	<-done
	assert.Equal(t, []int{1, 2}, order)
}
