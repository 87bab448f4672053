package graw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/jamesprial/graw-reddit/internal"
	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectTransport forwards every request to target regardless of the
// scheme/host the caller built, so the hardcoded www.reddit.com/
// oauth.reddit.com base URLs can be exercised against an httptest.Server.
type redirectTransport struct {
	target *url.URL
}

func (rt *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	req.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func redirectingConfig(t *testing.T, srv *httptest.Server) *Config {
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Username:     "alice",
		Password:     "hunter2",
		UserAgent:    "test-agent/1.0",
		HTTPClient:   &http.Client{Transport: &redirectTransport{target: target}},
	}
}

func TestNewAuthedClient_LogsInEagerly(t *testing.T) {
	var loginCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/access_token/" {
			atomic.AddInt32(&loginCalls, 1)
			w.Write([]byte(`{"access_token":"tok-1"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a, err := NewAuthedClient(context.Background(), redirectingConfig(t, srv))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loginCalls))
	assert.Equal(t, "tok-1", a.cell.Get())
}

func TestAuthedClient_ReLoginsOnceOn401ThenSucceeds(t *testing.T) {
	var loginCalls, dataCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token/":
			n := atomic.AddInt32(&loginCalls, 1)
			w.Write([]byte(`{"access_token":"tok-` + strconv.Itoa(int(n)) + `"}`))
		case "/api/v1/me/.json":
			n := atomic.AddInt32(&dataCalls, 1)
			if n == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":"u1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a, err := NewAuthedClient(context.Background(), redirectingConfig(t, srv))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&loginCalls))

	body, err := get(context.Background(), a, internal.NewEndpoint("api/v1/me"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&loginCalls), "expected exactly one re-login after the 401")
	assert.Equal(t, int32(2), atomic.LoadInt32(&dataCalls))
	assert.Equal(t, "tok-2", a.cell.Get())
}

func TestAuthedClient_TwoConsecutive401sSurfaceCredentialsNotSetError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token/":
			w.Write([]byte(`{"access_token":"tok-stale"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	a, err := NewAuthedClient(context.Background(), redirectingConfig(t, srv))
	require.NoError(t, err)

	_, err = get(context.Background(), a, internal.NewEndpoint("api/v1/me"))
	require.Error(t, err)
	var credErr *pkgerrs.CredentialsNotSetError
	assert.ErrorAs(t, err, &credErr)
}

func TestNewLazyAuthedClient_DefersLoginUntilFirstRequest(t *testing.T) {
	var loginCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token/":
			atomic.AddInt32(&loginCalls, 1)
			w.Write([]byte(`{"access_token":"tok-1"}`))
		case "/api/v1/me/.json":
			w.Write([]byte(`{"id":"u1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewLazyAuthedClient(redirectingConfig(t, srv))
	assert.Equal(t, int32(0), atomic.LoadInt32(&loginCalls))

	body, err := get(context.Background(), a, internal.NewEndpoint("api/v1/me"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&loginCalls))
}

func TestUnauthClient_DoRequestUsesWWWBaseURLAndNoAuthHeader(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		assert.NotEmpty(t, r.Header.Get("rd-request-id"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	u := NewUnauthClient(&Config{
		UserAgent:  "test-agent/1.0",
		HTTPClient: &http.Client{Transport: &redirectTransport{target: target}},
	})

	body, err := get(context.Background(), u, internal.NewEndpoint("r/golang/about"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Empty(t, sawAuth)
}

func TestOAuthClient_AttachesPresetAccessTokenHeader(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	o := NewOAuthClient(&Config{
		UserAgent:   "test-agent/1.0",
		AccessToken: "preset-tok",
		HTTPClient:  &http.Client{Transport: &redirectTransport{target: target}},
	})

	_, err = get(context.Background(), o, internal.NewEndpoint("api/v1/me"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer preset-tok", sawAuth)
}

func TestEndpointBuild_EmptyPathUsesBaseVerbatim(t *testing.T) {
	ep := internal.NewEndpoint("")
	assert.Equal(t, "https://oauth.reddit.com/.json", ep.Build("https://oauth.reddit.com"))
}

func TestEndpointBuild_AbsolutePathIgnoresBase(t *testing.T) {
	ep := internal.NewEndpoint("https://www.reddit.com/api/v1/revoke_token")
	ep.WithDotJSON = false
	assert.Equal(t, "https://www.reddit.com/api/v1/revoke_token/", ep.Build("https://oauth.reddit.com"))
}

func TestEndpointBuild_QueryOrderIsPreserved(t *testing.T) {
	ep := internal.NewEndpoint("r/golang/new").WithQuery("limit", "25").WithQuery("after", "t3_abc")
	got := ep.Build("https://oauth.reddit.com")
	assert.Equal(t, "https://oauth.reddit.com/r/golang/new/.json?limit=25&after=t3_abc&", got)
}

