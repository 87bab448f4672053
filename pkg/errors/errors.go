// Package errors defines the error taxonomy surfaced by the Reddit client.
//
// Every kind carries a stable discriminant (its Go type) and the payload
// needed to diagnose it without re-parsing a formatted string. Each
// constructor captures a short call-site trace so integration tests and logs
// can point at where the error originated, standing in for a full backtrace.
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// joinParts joins error message parts with the specified separator.
func joinParts(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

// trace captures a short slice of calling frames above the constructor.
func trace() []string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(3, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	out := make([]string, 0, n)
	for {
		f, more := frames.Next()
		out = append(out, fmt.Sprintf("%s:%d", f.Function, f.Line))
		if !more || len(out) >= 4 {
			break
		}
	}
	return out
}

// CredentialsNotSetError indicates a password-grant operation was attempted
// without username/password configured, or that a re-login attempt still
// left the client unauthorized.
type CredentialsNotSetError struct {
	Operation string
	Trace     []string
}

func NewCredentialsNotSetError(operation string) *CredentialsNotSetError {
	return &CredentialsNotSetError{Operation: operation, Trace: trace()}
}

func (e *CredentialsNotSetError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("credentials not set: %s", e.Operation)
	}
	return "credentials not set"
}

// AuthError indicates the token endpoint rejected the grant, i.e. it
// returned {"error": "..."} instead of an access token.
type AuthError struct {
	Reason string
	Trace  []string
}

func NewAuthError(reason string) *AuthError {
	return &AuthError{Reason: reason, Trace: trace()}
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Reason)
}

// NetworkError indicates a transport failure with no response at all.
type NetworkError struct {
	Operation string
	Err       error
	Trace     []string
}

func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err, Trace: trace()}
}

func (e *NetworkError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FullNetworkError indicates a response was received but the executor
// classified it as a terminal failure (non-2xx status it does not retry).
type FullNetworkError struct {
	StatusCode int
	Body       string
	Err        error
	Trace      []string
}

func NewFullNetworkError(statusCode int, body string, err error) *FullNetworkError {
	return &FullNetworkError{StatusCode: statusCode, Body: body, Err: err, Trace: trace()}
}

func (e *FullNetworkError) Error() string {
	parts := []string{fmt.Sprintf("status %d", e.StatusCode)}
	if e.Body != "" {
		parts = append(parts, fmt.Sprintf("body: %q", e.Body))
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("err: %v", e.Err))
	}
	return "full network error: " + joinParts(parts, ", ")
}

func (e *FullNetworkError) Unwrap() error { return e.Err }

// StatusError indicates a non-2xx response without a richer classification
// (e.g. a failed token-revocation call).
type StatusError struct {
	StatusCode int
	Trace      []string
}

func NewStatusError(statusCode int) *StatusError {
	return &StatusError{StatusCode: statusCode, Trace: trace()}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status error: %d", e.StatusCode)
}

// RedditAPIError is one [code, message, field] entry from a PostResponse
// errors array.
type RedditAPIError struct {
	Code    string
	Message string
	Field   string
}

// RedditError indicates Reddit's own API returned a semantic error, either
// via the api_type=json envelope's non-empty errors array or a plain 400
// body.
type RedditError struct {
	Errors []RedditAPIError
	Body   string
	Trace  []string
}

func NewRedditError(errs []RedditAPIError, body string) *RedditError {
	return &RedditError{Errors: errs, Body: body, Trace: trace()}
}

func (e *RedditError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("reddit error: %s", e.Body)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, er := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", er.Code, er.Message, er.Field))
	}
	return "reddit error: " + joinParts(parts, "; ")
}

// RatelimitedError is reserved for callers that opt to surface a 429
// condition instead of letting the executor wait it out.
type RatelimitedError struct {
	RetryAfter *int // seconds, nil if the header was absent
	Trace      []string
}

func NewRatelimitedError(retryAfter *int) *RatelimitedError {
	return &RatelimitedError{RetryAfter: retryAfter, Trace: trace()}
}

func (e *RatelimitedError) Error() string {
	if e.RetryAfter != nil {
		return fmt.Sprintf("ratelimited: retry after %ds", *e.RetryAfter)
	}
	return "ratelimited"
}

// ParseError indicates JSON decoding of a response body failed.
type ParseError struct {
	Operation string
	Err       error
	Trace     []string
}

func NewParseError(operation string, err error) *ParseError {
	return &ParseError{Operation: operation, Err: err, Trace: trace()}
}

func (e *ParseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OAuthClientRequiredError indicates the caller invoked an Authed-only
// operation on a lower client tier.
type OAuthClientRequiredError struct {
	Operation string
	Trace     []string
}

func NewOAuthClientRequiredError(operation string) *OAuthClientRequiredError {
	return &OAuthClientRequiredError{Operation: operation, Trace: trace()}
}

func (e *OAuthClientRequiredError) Error() string {
	return fmt.Sprintf("operation %s requires an authenticated client", e.Operation)
}

// ConfigError indicates a problem with the client configuration: a required
// field was left empty for the tier being constructed.
type ConfigError struct {
	Field   string
	Message string
	Trace   []string
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message, Trace: trace()}
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}
