package internal

import "strings"

// Endpoint composes a request path, an ordered set of query parameters, and
// whether a trailing ".json" suffix should be appended. It is the one place
// that knows how to turn a logical operation name into a URL.
type Endpoint struct {
	Path        string
	Query       [][2]string
	WithDotJSON bool
}

// NewEndpoint starts a builder for the given path with the .json suffix
// enabled, matching every endpoint except the access-token and
// revoke-token ones.
func NewEndpoint(path string) *Endpoint {
	return &Endpoint{Path: path, WithDotJSON: true}
}

// WithQuery appends a query parameter, preserving insertion order.
func (e *Endpoint) WithQuery(key, value string) *Endpoint {
	e.Query = append(e.Query, [2]string{key, value})
	return e
}

// Join appends other's path and extends the query in order.
func (e *Endpoint) Join(other *Endpoint) *Endpoint {
	e.Path = strings.TrimRight(e.Path, "/") + "/" + strings.TrimLeft(other.Path, "/")
	e.Query = append(e.Query, other.Query...)
	if !other.WithDotJSON {
		e.WithDotJSON = false
	}
	return e
}

// Build produces the absolute URL. An absolute path (one already starting
// with "http") is used verbatim instead of being prefixed with base, which
// lets token-revocation calls target www.reddit.com regardless of the
// client's configured base URL.
func (e *Endpoint) Build(base string) string {
	dotJSON := ""
	if e.WithDotJSON {
		dotJSON = ".json"
	}

	var joined string
	switch {
	case strings.HasPrefix(e.Path, "http"):
		joined = e.Path + "/" + dotJSON
	case e.Path == "" || strings.HasPrefix(e.Path, "/"):
		joined = base + e.Path + "/" + dotJSON
	default:
		joined = base + "/" + e.Path + "/" + dotJSON
	}

	if len(e.Query) == 0 {
		return joined
	}

	var out strings.Builder
	out.WriteString(joined)
	out.WriteByte('?')
	for _, kv := range e.Query {
		out.WriteString(kv[0])
		out.WriteByte('=')
		out.WriteString(kv[1])
		out.WriteByte('&')
	}
	return out.String()
}
