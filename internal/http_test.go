package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient("test-agent/1.0", nil)
}

func buildReqTo(t *testing.T, url string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		return http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	}
}

func TestExecute_SuccessOnFirstTry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient()
	body, resp, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestExecute_TransientFiveHundredsThenSuccess(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient()
	start := time.Now()
	body, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	// two backoffs: min(60,2^1)=2s, min(60,2^2)=4s
	assert.GreaterOrEqual(t, time.Since(start), 6*time.Second)
}

func TestExecute_RetryAfterHeaderSleepsThatManySeconds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"page":2}`))
	}))
	defer srv.Close()

	c := newTestClient()
	start := time.Now()
	body, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":2}`, string(body))
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestExecute_MaxRetryAfterShortCircuitsToRatelimitedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient()
	c.MaxRetryAfter = time.Second
	_, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.Error(t, err)
	var rlErr *pkgerrs.RatelimitedError
	require.ErrorAs(t, err, &rlErr)
	require.NotNil(t, rlErr.RetryAfter)
	assert.Equal(t, 120, *rlErr.RetryAfter)
}

func TestExecute_BadRequestSurfacesRedditError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"json":{"errors":[["BAD_SR_NAME","that subreddit does not exist","sr"]]}}`))
	}))
	defer srv.Close()

	c := newTestClient()
	_, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.Error(t, err)
	var redditErr *pkgerrs.RedditError
	assert.ErrorAs(t, err, &redditErr)
}

func TestExecute_UnauthorizedSignalsCallerWithoutRetrying(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient()
	_, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestExecute_OtherFourHundredsAreTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	c := newTestClient()
	_, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), nil)
	require.Error(t, err)
	var fnErr *pkgerrs.FullNetworkError
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, http.StatusNotFound, fnErr.StatusCode)
}

func TestExecute_FiveHundredCapAtThirtyTwoRetriesSurfacesTerminal(t *testing.T) {
	// Exercise the retry-counter bookkeeping without waiting out 32 real
	// backoffs: verify classify()'s maxRetries is wired to 32 for 500s, then
	// confirm backoffOrStop itself stops at the boundary.
	out := classify(transportResult{resp: &http.Response{StatusCode: http.StatusInternalServerError}})
	assert.Equal(t, outcomeRetryExponential, out.kind)
	assert.Equal(t, 32, out.maxRetries)

	retries := 32
	_, stop := backoffOrStop(&retries, 32)
	assert.True(t, stop)
}

func TestExecute_NetworkErrorWithNoResponseIsTerminal(t *testing.T) {
	c := newTestClient()
	_, _, err := c.Execute(context.Background(), func() (*http.Request, error) {
		return http.NewRequestWithContext(context.Background(), http.MethodGet, "http://127.0.0.1:1", nil)
	}, nil)
	require.Error(t, err)
	var netErr *pkgerrs.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestExecute_RatelimiterUpdatedFromResponseHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ratelimit-Remaining", "59")
		w.Header().Set("X-Ratelimit-Used", "1")
		w.Header().Set("X-Ratelimit-Reset", "300")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient()
	rl := NewRatelimiter(nil)
	_, _, err := c.Execute(context.Background(), buildReqTo(t, srv.URL), rl)
	require.NoError(t, err)
	assert.Equal(t, float64(59), rl.remaining)
	assert.Equal(t, uint64(1), rl.used)
}

func TestExecute_ConnectionResetIsRetried(t *testing.T) {
	// isResetOrAborted only matches on error text; directly verify the
	// classifier recognizes the reset/aborted message forms.
	assert.True(t, isResetOrAborted(fakeErr("read: connection reset by peer")))
	assert.True(t, isResetOrAborted(fakeErr("write: broken pipe")))
	assert.False(t, isResetOrAborted(fakeErr("no such host")))
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestBackoffOrStop_Doubling(t *testing.T) {
	retries := 0
	d, stop := backoffOrStop(&retries, -1)
	assert.False(t, stop)
	assert.Equal(t, 2*time.Second, d)

	d, stop = backoffOrStop(&retries, -1)
	assert.False(t, stop)
	assert.Equal(t, 4*time.Second, d)
}

func TestBackoffOrStop_CapsAtSixtySeconds(t *testing.T) {
	retries := 10
	d, stop := backoffOrStop(&retries, -1)
	assert.False(t, stop)
	assert.Equal(t, 60*time.Second, d)
}
