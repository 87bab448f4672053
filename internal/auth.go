package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
)

// authResponse mirrors Reddit's untagged token-endpoint response: either an
// access token on success, or an {"error": "..."} body on failure.
type authResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// Login performs the OAuth2 password-grant exchange against
// api/v1/access_token and returns the bearer token. It runs through the same
// executor (and, when provided, the same ratelimiter) as every other
// request, so even the token endpoint counts against the client's window.
func Login(ctx context.Context, httpClient *Client, rl *Ratelimiter, baseURL, clientID, clientSecret, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", pkgerrs.NewCredentialsNotSetError("login")
	}

	endpoint := NewEndpoint("api/v1/access_token")
	endpoint.WithDotJSON = false
	target := endpoint.Build(baseURL)

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	buildReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", httpClient.UserAgent)
		req.SetBasicAuth(clientID, clientSecret)
		return req, nil
	}

	body, _, err := httpClient.Execute(ctx, buildReq, rl)
	if err != nil {
		if IsUnauthorized(err) {
			return "", pkgerrs.NewAuthError("token endpoint returned 401")
		}
		return "", err
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", pkgerrs.NewParseError("login", err)
	}
	if auth.Error != "" {
		return "", pkgerrs.NewAuthError(auth.Error)
	}
	if auth.AccessToken == "" {
		return "", pkgerrs.NewAuthError("token endpoint returned neither access_token nor error")
	}
	return auth.AccessToken, nil
}

// RevokeToken calls the OAuth2 token-revocation endpoint (RFC 7009) to
// invalidate token server-side. Reddit returns an empty 204 body on success
// and no JSON error envelope on failure, so a terminal non-2xx status
// (including 401) surfaces as a bare StatusError rather than the
// FullNetworkError the executor returns elsewhere; a 400 still surfaces as
// the executor's RedditError.
func RevokeToken(ctx context.Context, httpClient *Client, rl *Ratelimiter, baseURL, clientID, clientSecret, token string) error {
	endpoint := NewEndpoint("api/v1/revoke_token")
	endpoint.WithDotJSON = false
	target := endpoint.Build(baseURL)

	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", "access_token")

	buildReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", httpClient.UserAgent)
		req.SetBasicAuth(clientID, clientSecret)
		return req, nil
	}

	_, resp, err := httpClient.Execute(ctx, buildReq, rl)
	if err != nil {
		if IsUnauthorized(err) {
			return pkgerrs.NewStatusError(http.StatusUnauthorized)
		}
		var fnErr *pkgerrs.FullNetworkError
		if errors.As(err, &fnErr) {
			return pkgerrs.NewStatusError(fnErr.StatusCode)
		}
		return err
	}
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return pkgerrs.NewStatusError(resp.StatusCode)
	}
	return nil
}

// TokenCell is the reader/writer-protected access-token cell owned by an
// Authed client. Reads (attaching the bearer header) are shared; a writer
// holds the lock for the whole re-login round trip so a waiter that wakes up
// never overwrites a token a concurrent login already refreshed.
type TokenCell struct {
	mu    sync.RWMutex
	token string
}

// NewTokenCell seeds the cell with an already-known token (e.g. one supplied
// directly in Config), which may be empty.
func NewTokenCell(initial string) *TokenCell {
	return &TokenCell{token: initial}
}

// Get returns the current token under the read lock.
func (c *TokenCell) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Relogin acquires the write lock and calls login to refresh the token. Any
// concurrent caller blocked on the write lock will see the fresh token on
// return rather than re-triggering its own login.
func (c *TokenCell) Relogin(ctx context.Context, logger *slog.Logger, login func(context.Context) (string, error)) error {
	stale := c.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != stale {
		return nil
	}
	token, err := login(ctx)
	if err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "re-login failed", slog.String("err", err.Error()))
		}
		return err
	}
	c.token = token
	return nil
}

// BearerHeader formats the cell's current token as an Authorization header
// value.
func (c *TokenCell) BearerHeader() string {
	return fmt.Sprintf("Bearer %s", c.Get())
}
