package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fullname is Reddit's global object identifier, "tN_base36id". Known kinds:
// t1 comment, t2 account, t3 link, t4 message, t5 subreddit, t6 award,
// t8 promo campaign. Once constructed the kind/id split never re-scans.
type Fullname struct {
	full string
	sep  int // index of the underscore
}

// InvalidFullnameError is returned by ParseFullname when the input does not
// have a two-character "tN" prefix followed by an underscore.
type InvalidFullnameError struct {
	Input string
}

func (e *InvalidFullnameError) Error() string {
	return fmt.Sprintf("invalid fullname %q", e.Input)
}

// ParseFullname validates and wraps a Reddit fullname string.
func ParseFullname(s string) (Fullname, error) {
	idx := strings.IndexByte(s, '_')
	if idx != 2 || s[0] != 't' {
		return Fullname{}, &InvalidFullnameError{Input: s}
	}
	return Fullname{full: s, sep: idx}, nil
}

// FullnameFromCommentID builds a t1 fullname from a bare base-36 id.
func FullnameFromCommentID(id string) Fullname {
	return Fullname{full: "t1_" + id, sep: 2}
}

// FullnameFromSubmissionID builds a t3 fullname from a bare base-36 id.
func FullnameFromSubmissionID(id string) Fullname {
	return Fullname{full: "t3_" + id, sep: 2}
}

// FullnameFromSubmissionLink extracts the submission id from a permalink of
// the form "https://www.reddit.com/r/<sub>/comments/<id>[/<title>[/...]]" and
// returns it as a t3 fullname.
func FullnameFromSubmissionLink(url string) (Fullname, bool) {
	_, rest, ok := strings.Cut(url, "/r/")
	if !ok {
		return Fullname{}, false
	}
	_, rest, ok = strings.Cut(rest, "/comments/")
	if !ok {
		return Fullname{}, false
	}
	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return Fullname{}, false
	}
	return FullnameFromSubmissionID(id), true
}

// Kind returns the two-character kind, e.g. "t3".
func (f Fullname) Kind() string {
	return f.full[:f.sep]
}

// ID returns the base-36 tail, e.g. "1e5leyy".
func (f Fullname) ID() string {
	return f.full[f.sep+1:]
}

// Split returns kind and id together.
func (f Fullname) Split() (kind, id string) {
	return f.Kind(), f.ID()
}

// Full returns the complete fullname string.
func (f Fullname) Full() string {
	return f.full
}

// IsZero reports whether this Fullname was never set.
func (f Fullname) IsZero() bool {
	return f.full == ""
}

func (f Fullname) String() string {
	return f.full
}

func (f Fullname) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.full)
}

// UnmarshalJSON decodes the empty string (what MarshalJSON emits for the zero
// Fullname) back to the zero Fullname; any other string must parse.
func (f *Fullname) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*f = Fullname{}
		return nil
	}
	parsed, err := ParseFullname(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
