package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsNotSetError(t *testing.T) {
	err := NewCredentialsNotSetError("login")
	assert.Equal(t, "credentials not set: login", err.Error())
	assert.NotEmpty(t, err.Trace)
}

func TestAuthError(t *testing.T) {
	err := NewAuthError("invalid_grant")
	assert.Equal(t, "auth error: invalid_grant", err.Error())
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: timeout")
	err := NewNetworkError("execute", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "execute")
}

func TestFullNetworkError(t *testing.T) {
	err := NewFullNetworkError(500, `{"reason":"internal"}`, nil)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "internal")
}

func TestStatusError(t *testing.T) {
	err := NewStatusError(401)
	assert.Equal(t, "status error: 401", err.Error())
}

func TestRedditError_WithAPIErrors(t *testing.T) {
	err := NewRedditError([]RedditAPIError{{Code: "BAD_TITLE", Message: "too long", Field: "title"}}, "")
	assert.Contains(t, err.Error(), "BAD_TITLE")
	assert.Contains(t, err.Error(), "title")
}

func TestRedditError_BodyOnly(t *testing.T) {
	err := NewRedditError(nil, "plain 400 body")
	assert.Equal(t, "reddit error: plain 400 body", err.Error())
}

func TestRatelimitedError_WithRetryAfter(t *testing.T) {
	secs := 30
	err := NewRatelimitedError(&secs)
	assert.Equal(t, "ratelimited: retry after 30s", err.Error())
}

func TestRatelimitedError_NoRetryAfter(t *testing.T) {
	err := NewRatelimitedError(nil)
	assert.Equal(t, "ratelimited", err.Error())
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := NewParseError("decode", inner)
	assert.ErrorIs(t, err, inner)
}

func TestOAuthClientRequiredError(t *testing.T) {
	err := NewOAuthClientRequiredError("submission operation")
	assert.Contains(t, err.Error(), "submission operation")
}

func TestConfigError_WithField(t *testing.T) {
	err := NewConfigError("ClientID", "required to log in")
	assert.Equal(t, "config error in field ClientID: required to log in", err.Error())
}

func TestConfigError_NoField(t *testing.T) {
	err := &ConfigError{Message: "bad config"}
	assert.Equal(t, "config error: bad config", err.Error())
}

func TestErrors_AreDistinctTypes(t *testing.T) {
	var err error = NewAuthError("x")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
}
