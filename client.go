package graw

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamesprial/graw-reddit/internal"
	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
)

const (
	wwwBaseURL      = "https://www.reddit.com"
	oauthBaseURL    = "https://oauth.reddit.com"
	unauthUserAgent = "generic-client"
)

// Config holds the credentials and tuning knobs shared by every client tier
// built from it. It is never mutated after construction; each tier clones
// the fields it needs.
type Config struct {
	// ClientID and ClientSecret identify the Reddit app. Required for OAuth
	// and Authed tiers.
	ClientID     string
	ClientSecret string

	// Username and Password enable the password grant. Leave both empty for
	// an app-only OAuth client.
	Username string
	Password string

	// UserAgent identifies the client to Reddit. Should follow
	// "platform:appname:version (by /u/yourusername)".
	UserAgent string

	// AccessToken, if set, seeds an Authed client's token cell without an
	// initial login round trip.
	AccessToken string

	// HTTPClient overrides the transport. A client with a 30s timeout is
	// used if nil.
	HTTPClient *http.Client

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *internal.Logger

	// RateLimit optionally layers a steady-state token-bucket cap beneath
	// the header-driven ratelimiter.
	RateLimit *internal.RateLimitConfig

	// MaxRetryAfterWait bounds how long a single request will sleep for a
	// 429 Retry-After response before giving up and returning
	// pkg/errors.RatelimitedError instead of waiting it out. Zero (the
	// default) waits whatever duration Reddit asks for.
	MaxRetryAfterWait time.Duration
}

func (c *Config) userAgent() string {
	if c.UserAgent == "" {
		return unauthUserAgent
	}
	return c.UserAgent
}

// client is the shape every tier implements: build and run one logical
// request, retrying and rate-limiting as that tier's policy requires.
type client interface {
	baseURL() string
	doRequest(ctx context.Context, method string, ep *internal.Endpoint, form url.Values) ([]byte, *http.Response, error)
	logger() *internal.Logger
}

func newTransportClient(cfg *Config) *internal.Client {
	var c *internal.Client
	if cfg.RateLimit != nil {
		c = internal.NewClientWithRateLimit(cfg.userAgent(), internal.SlogLogger(cfg.Logger), *cfg.RateLimit)
	} else {
		c = internal.NewClient(cfg.userAgent(), internal.SlogLogger(cfg.Logger))
	}
	if cfg.HTTPClient != nil {
		c.HTTP = cfg.HTTPClient
	}
	c.MaxRetryAfter = cfg.MaxRetryAfterWait
	return c
}

func attachCommonHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("rd-request-id", uuid.New().String())
}

// UnauthClient is a minimal, read-only tier for public endpoints: no
// ratelimiter, base URL always www.reddit.com. Its requests still go through
// the same executor as the other tiers, so 429s, 500s and connection resets
// are retried; it has no mode that turns retries off.
type UnauthClient struct {
	transport *internal.Client
}

// NewUnauthClient builds a client suitable for unauthenticated, public
// endpoints.
func NewUnauthClient(cfg *Config) *UnauthClient {
	if cfg == nil {
		cfg = &Config{}
	}
	return &UnauthClient{transport: newTransportClient(cfg)}
}

func (u *UnauthClient) baseURL() string          { return wwwBaseURL }
func (u *UnauthClient) logger() *internal.Logger { return u.transport.Logger }

func (u *UnauthClient) doRequest(ctx context.Context, method string, ep *internal.Endpoint, form url.Values) ([]byte, *http.Response, error) {
	target := ep.Build(u.baseURL())
	buildReq := func() (*http.Request, error) {
		var body strings.Reader
		if form != nil {
			body = *strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, target, &body)
		if err != nil {
			return nil, err
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		attachCommonHeaders(req, u.transport.UserAgent)
		return req, nil
	}
	return u.transport.Execute(ctx, buildReq, nil)
}

// OAuthClient is an app-only authenticated tier: owns a ratelimiter and the
// full retry executor, but no bearer token unless one was preset via
// Config.AccessToken.
type OAuthClient struct {
	cfg         *Config
	transport   *internal.Client
	rl          *internal.Ratelimiter
	accessToken string
}

// NewOAuthClient builds an app-only OAuth client. Base URL is
// oauth.reddit.com when a password is configured (so a subsequent Login can
// exchange it), www.reddit.com otherwise.
func NewOAuthClient(cfg *Config) *OAuthClient {
	if cfg == nil {
		cfg = &Config{}
	}
	return &OAuthClient{
		cfg:         cfg,
		transport:   newTransportClient(cfg),
		rl:          internal.NewRatelimiter(internal.SlogLogger(cfg.Logger)),
		accessToken: cfg.AccessToken,
	}
}

func (o *OAuthClient) baseURL() string {
	if o.cfg.Password != "" {
		return oauthBaseURL
	}
	return wwwBaseURL
}

func (o *OAuthClient) logger() *internal.Logger { return o.transport.Logger }

func (o *OAuthClient) doRequest(ctx context.Context, method string, ep *internal.Endpoint, form url.Values) ([]byte, *http.Response, error) {
	target := ep.Build(o.baseURL())
	buildReq := func() (*http.Request, error) {
		var body strings.Reader
		if form != nil {
			body = *strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, target, &body)
		if err != nil {
			return nil, err
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		attachCommonHeaders(req, o.transport.UserAgent)
		if o.accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+o.accessToken)
		}
		return req, nil
	}
	return o.transport.Execute(ctx, buildReq, o.rl)
}

// Login performs the password-grant exchange and returns an AuthedClient
// wrapping this OAuth client's transport and ratelimiter.
func (o *OAuthClient) Login(ctx context.Context) (*AuthedClient, error) {
	if o.cfg.Username == "" || o.cfg.Password == "" {
		return nil, pkgerrs.NewCredentialsNotSetError("login")
	}
	if o.cfg.ClientID == "" {
		return nil, pkgerrs.NewConfigError("ClientID", "required to log in")
	}
	if o.cfg.ClientSecret == "" {
		return nil, pkgerrs.NewConfigError("ClientSecret", "required to log in")
	}
	token, err := internal.Login(ctx, o.transport, o.rl, wwwBaseURL, o.cfg.ClientID, o.cfg.ClientSecret, o.cfg.Username, o.cfg.Password)
	if err != nil {
		return nil, err
	}
	return &AuthedClient{
		oauth: o,
		cell:  internal.NewTokenCell(token),
	}, nil
}

// AuthedClient wraps an OAuthClient with a reader/writer-protected access
// token cell and a re-login-on-401-then-retry-once protocol.
type AuthedClient struct {
	oauth *OAuthClient
	cell  *internal.TokenCell

	// connOnce is non-nil only for clients built by NewLazyAuthedClient: it
	// gates the deferred first login so concurrent first callers block on
	// one shared attempt instead of each triggering their own.
	connOnce *internal.ConnectionManager
}

// NewAuthedClient builds an OAuth client from cfg and immediately logs in,
// unless cfg.AccessToken is set, in which case that token seeds the cell and
// no login round trip is made.
func NewAuthedClient(ctx context.Context, cfg *Config) (*AuthedClient, error) {
	oauth := NewOAuthClient(cfg)
	if cfg.AccessToken != "" {
		return &AuthedClient{oauth: oauth, cell: internal.NewTokenCell(cfg.AccessToken)}, nil
	}
	return oauth.Login(ctx)
}

// NewLazyAuthedClient builds an OAuth client from cfg but defers the login
// round trip until the first request instead of performing it eagerly. A
// ConnectionManager guards that first login so concurrent callers racing to
// make the first request share one login attempt rather than each starting
// their own.
func NewLazyAuthedClient(cfg *Config) *AuthedClient {
	oauth := NewOAuthClient(cfg)
	return &AuthedClient{
		oauth:    oauth,
		cell:     internal.NewTokenCell(cfg.AccessToken),
		connOnce: internal.NewConnectionManager(),
	}
}

// Connect builds an AuthedClient and performs the login eagerly; it is an
// alias for NewAuthedClient.
func Connect(ctx context.Context, cfg *Config) (*AuthedClient, error) {
	return NewAuthedClient(ctx, cfg)
}

func (a *AuthedClient) baseURL() string          { return a.oauth.baseURL() }
func (a *AuthedClient) logger() *internal.Logger { return a.oauth.transport.Logger }

func (a *AuthedClient) login(ctx context.Context) (string, error) {
	return internal.Login(ctx, a.oauth.transport, a.oauth.rl, wwwBaseURL, a.oauth.cfg.ClientID, a.oauth.cfg.ClientSecret, a.oauth.cfg.Username, a.oauth.cfg.Password)
}

// ensureConnected performs the deferred first login exactly once for a lazy
// client; it is a no-op for clients built by NewAuthedClient.
func (a *AuthedClient) ensureConnected(ctx context.Context) error {
	if a.connOnce == nil {
		return nil
	}
	return a.connOnce.Initialize(ctx, func(ctx context.Context) error {
		if a.cell.Get() != "" {
			return nil
		}
		return a.cell.Relogin(ctx, internal.SlogLogger(a.oauth.cfg.Logger), a.login)
	})
}

func (a *AuthedClient) doRequest(ctx context.Context, method string, ep *internal.Endpoint, form url.Values) ([]byte, *http.Response, error) {
	if err := a.ensureConnected(ctx); err != nil {
		return nil, nil, err
	}
	target := ep.Build(a.baseURL())

	buildReq := func() (*http.Request, error) {
		var body strings.Reader
		if form != nil {
			body = *strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, target, &body)
		if err != nil {
			return nil, err
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		attachCommonHeaders(req, a.oauth.transport.UserAgent)
		req.Header.Set("Authorization", a.cell.BearerHeader())
		return req, nil
	}

	body, resp, err := a.oauth.transport.Execute(ctx, buildReq, a.oauth.rl)
	if err == nil || !internal.IsUnauthorized(err) {
		return body, resp, err
	}

	if reloginErr := a.cell.Relogin(ctx, internal.SlogLogger(a.oauth.cfg.Logger), a.login); reloginErr != nil {
		return nil, nil, reloginErr
	}

	body, resp, err = a.oauth.transport.Execute(ctx, buildReq, a.oauth.rl)
	if err != nil && internal.IsUnauthorized(err) {
		return nil, nil, pkgerrs.NewCredentialsNotSetError("unauthorized again after re-login")
	}
	return body, resp, err
}

// Logout revokes this client's access token server-side via RFC 7009 token
// revocation. The client must not be used for further requests afterward.
func (a *AuthedClient) Logout(ctx context.Context) error {
	return internal.RevokeToken(ctx, a.oauth.transport, a.oauth.rl, wwwBaseURL, a.oauth.cfg.ClientID, a.oauth.cfg.ClientSecret, a.cell.Get())
}

// get issues a GET and returns the raw response body.
func get(ctx context.Context, c client, ep *internal.Endpoint) ([]byte, error) {
	body, _, err := c.doRequest(ctx, http.MethodGet, ep, nil)
	return body, err
}

// getJSON issues a GET and decodes the body into out.
func getJSON(ctx context.Context, c client, ep *internal.Endpoint, out any) error {
	body, err := get(ctx, c, ep)
	if err != nil {
		return err
	}
	return decodeJSON(body, out, ep.Path)
}

// post issues a POST with a form body and returns the raw response.
func post(ctx context.Context, c client, ep *internal.Endpoint, form url.Values) ([]byte, error) {
	body, _, err := c.doRequest(ctx, http.MethodPost, ep, withAPIType(form))
	return body, err
}

// postWithResponse issues api_type=json POST and unwraps the PostResponse[T]
// envelope, surfacing a non-empty errors array as pkgerrs.RedditError.
func postWithResponse[T any](ctx context.Context, c client, ep *internal.Endpoint, form url.Values, operation string) (T, error) {
	var zero T
	body, err := post(ctx, c, ep, form)
	if err != nil {
		return zero, err
	}
	return internal.DecodePostResponse[T](body, operation)
}

func withAPIType(form url.Values) url.Values {
	out := url.Values{}
	for k, v := range form {
		out[k] = v
	}
	out.Set("api_type", "json")
	return out
}

func decodeJSON(body []byte, out any, operation string) error {
	if err := internal.UnmarshalStrict(body, out); err != nil {
		return pkgerrs.NewParseError(operation, err)
	}
	return nil
}
