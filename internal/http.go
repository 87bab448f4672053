package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	initialBufferSize   = 4 * 1024
	maxBufferSize       = 256 * 1024
	maxResponseBodySize = 10 * 1024 * 1024
)

// Client owns the transport, the optional steady-state rate cap, and the
// logger shared by every request tier built on top of it. The header-driven
// ratelimiter (internal/ratelimit.go) is owned per OAuth/Authed client, not
// here, since its window is per-credential.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Logger    *slog.Logger

	// limiter smooths bursts of concurrent callers queuing on the same
	// ratelimiter mutex. It is an additional, local cap layered beneath the
	// header-driven delay -- it never replaces it.
	limiter *rate.Limiter

	// MaxRetryAfter bounds how long Execute will sleep for a single
	// Retry-After response before giving up and returning RatelimitedError
	// instead of waiting it out. Zero means wait whatever Reddit asks for.
	MaxRetryAfter time.Duration

	bufPool sync.Pool
}

// RateLimitConfig configures the steady-state token-bucket cap.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// NewClient builds a bare transport wrapper with no steady-state cap.
func NewClient(userAgent string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		UserAgent: userAgent,
		Logger:    logger,
	}
	c.bufPool.New = func() any {
		b := make([]byte, 0, initialBufferSize)
		return &b
	}
	return c
}

// NewClientWithRateLimit additionally layers a token-bucket cap beneath the
// header-driven ratelimiter.
func NewClientWithRateLimit(userAgent string, logger *slog.Logger, cfg RateLimitConfig) *Client {
	c := NewClient(userAgent, logger)
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return c
}

func (c *Client) getBuffer() *[]byte {
	return c.bufPool.Get().(*[]byte)
}

func (c *Client) putBuffer(buf *[]byte) {
	if cap(*buf) > maxBufferSize {
		return
	}
	*buf = (*buf)[:0]
	c.bufPool.Put(buf)
}

// transportResult is what one physical HTTP round trip produced.
type transportResult struct {
	resp *http.Response
	body []byte
	err  error
}

func (c *Client) roundTrip(req *http.Request) transportResult {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return transportResult{err: err}
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return transportResult{err: err}
	}
	defer resp.Body.Close()

	bufPtr := c.getBuffer()
	defer c.putBuffer(bufPtr)

	buf := bytes.NewBuffer(*bufPtr)
	n, err := io.Copy(buf, io.LimitReader(resp.Body, maxResponseBodySize+1))
	*bufPtr = buf.Bytes()[:0]
	if err != nil {
		return transportResult{resp: resp, err: err}
	}
	if n > maxResponseBodySize {
		return transportResult{resp: resp, err: fmt.Errorf("internal: response body exceeds %d bytes", maxResponseBodySize)}
	}

	// The pooled buffer is recycled on return, so hand back a copy.
	body := make([]byte, buf.Len())
	copy(body, buf.Bytes())
	return transportResult{resp: resp, body: body}
}

// outcomeKind classifies one round trip per the executor's retry table.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRetryAfter
	outcomeRetryExponential
	outcomeUnauthorized
	outcomeBadRequest
	outcomeTerminalStatus
	outcomeTerminalNetwork
)

type outcome struct {
	kind       outcomeKind
	retryAfter time.Duration
	maxRetries int // -1 means unlimited
	err        error
}

func classify(tr transportResult) outcome {
	if tr.resp == nil {
		return outcome{kind: outcomeTerminalNetwork, maxRetries: -1, err: tr.err}
	}

	status := tr.resp.StatusCode
	if status >= 200 && status < 300 {
		return outcome{kind: outcomeSuccess}
	}

	switch status {
	case http.StatusTooManyRequests:
		if ra := tr.resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				return outcome{kind: outcomeRetryAfter, retryAfter: time.Duration(secs) * time.Second}
			}
		}
		return outcome{kind: outcomeRetryExponential, maxRetries: -1}
	case http.StatusBadRequest:
		return outcome{kind: outcomeBadRequest}
	case http.StatusUnauthorized:
		return outcome{kind: outcomeUnauthorized}
	case http.StatusInternalServerError:
		return outcome{kind: outcomeRetryExponential, maxRetries: 32}
	default:
		return outcome{kind: outcomeTerminalStatus}
	}
}

// isResetOrAborted reports whether err wraps a connection-reset/aborted IO
// failure, the one class of transport error the executor retries.
func isResetOrAborted(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "forcibly closed")
}

// Execute runs buildReq, sends it, classifies the outcome, and loops through
// retries/backoff until it gets a terminal result. buildReq is called again
// on every attempt so a caller whose request carries a freshly-refreshed
// bearer token can hand back an up-to-date request.
//
// If rl is non-nil, the delay+send+update cycle executes atomically with
// respect to its mutex: rl.Lock is held from just before Delay until just
// after Update, so concurrent callers serialize and each observes the
// header state the previous request left behind.
func (c *Client) Execute(ctx context.Context, buildReq func() (*http.Request, error), rl *Ratelimiter) ([]byte, *http.Response, error) {
	var retries int
	for {
		req, err := buildReq()
		if err != nil {
			return nil, nil, pkgerrs.NewNetworkError("build request", err)
		}

		var tr transportResult
		if rl != nil {
			unlock := rl.Lock()
			if err := rl.Delay(ctx); err != nil {
				unlock()
				return nil, nil, pkgerrs.NewNetworkError("ratelimit wait", err)
			}
			tr = c.roundTrip(req)
			if tr.resp != nil {
				rl.Update(tr.resp.Header)
			}
			unlock()
		} else {
			tr = c.roundTrip(req)
		}

		if tr.err != nil && tr.resp == nil {
			if isResetOrAborted(tr.err) {
				if d, stop := backoffOrStop(&retries, 16); stop {
					return nil, nil, pkgerrs.NewNetworkError("execute", tr.err)
				} else if sleepErr := sleepCtx(ctx, d); sleepErr != nil {
					return nil, nil, pkgerrs.NewNetworkError("execute", sleepErr)
				}
				continue
			}
			return nil, nil, pkgerrs.NewNetworkError("execute", tr.err)
		}

		out := classify(tr)
		switch out.kind {
		case outcomeSuccess:
			return tr.body, tr.resp, nil
		case outcomeRetryAfter:
			if c.MaxRetryAfter > 0 && out.retryAfter > c.MaxRetryAfter {
				secs := int(out.retryAfter / time.Second)
				return nil, nil, pkgerrs.NewRatelimitedError(&secs)
			}
			retries++
			c.Logger.DebugContext(ctx, "retrying after Retry-After", slog.Duration("after", out.retryAfter), slog.Int("attempt", retries))
			if err := sleepCtx(ctx, out.retryAfter); err != nil {
				return nil, nil, pkgerrs.NewNetworkError("execute", err)
			}
			continue
		case outcomeRetryExponential:
			if d, stop := backoffOrStop(&retries, out.maxRetries); stop {
				return nil, nil, pkgerrs.NewFullNetworkError(tr.resp.StatusCode, string(tr.body), nil)
			} else if err := sleepCtx(ctx, d); err != nil {
				return nil, nil, pkgerrs.NewNetworkError("execute", err)
			}
			continue
		case outcomeUnauthorized:
			return tr.body, tr.resp, &unauthorizedSignal{}
		case outcomeBadRequest:
			return nil, nil, parseRedditError(tr.body)
		case outcomeTerminalStatus:
			return nil, nil, pkgerrs.NewFullNetworkError(tr.resp.StatusCode, string(tr.body), nil)
		}
	}
}

// unauthorizedSignal lets the Authed tier distinguish "got a 401" from other
// terminal errors without the executor knowing about re-login.
type unauthorizedSignal struct{}

func (e *unauthorizedSignal) Error() string { return "unauthorized" }

// IsUnauthorized reports whether err is the executor's 401 signal.
func IsUnauthorized(err error) bool {
	_, ok := err.(*unauthorizedSignal)
	return ok
}

func parseRedditError(body []byte) error {
	return pkgerrs.NewRedditError(nil, string(body))
}

// backoffOrStop increments retries and returns the sleep duration, or stop
// == true if the cap (maxRetries, -1 for unlimited) was exceeded.
func backoffOrStop(retries *int, maxRetries int) (time.Duration, bool) {
	*retries++
	if maxRetries >= 0 && *retries > maxRetries {
		return 0, true
	}
	secs := 1 << *retries
	if secs > 60 {
		secs = 60
	}
	return time.Duration(secs) * time.Second, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
