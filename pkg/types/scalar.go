package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Votable is an embeddable struct for things that can be voted on.
type Votable struct {
	Ups   int   `json:"ups"`
	Downs int   `json:"downs"`
	Likes *bool `json:"likes"`
}

// Created is an embeddable struct for things that have a creation time.
type Created struct {
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
}

// Edited is either NotEdited (JSON false) or EditedAt (JSON numeric
// timestamp). JSON true is rejected: Reddit's modern API never emits it, and
// accepting it would hide the ambiguous old-style "edited: true" marker
// rather than surfacing it as a decode error.
type Edited struct {
	At *float64 // nil means NotEdited
}

// NotEdited is the zero value.
var NotEdited = Edited{}

// EditedAt constructs an Edited with the given timestamp.
func EditedAt(ts float64) Edited {
	return Edited{At: &ts}
}

func (e Edited) IsEdited() bool {
	return e.At != nil
}

func (e Edited) Timestamp() float64 {
	if e.At == nil {
		return 0
	}
	return *e.At
}

func (e Edited) MarshalJSON() ([]byte, error) {
	if e.At == nil {
		return []byte("false"), nil
	}
	return json.Marshal(*e.At)
}

func (e *Edited) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("false")):
		e.At = nil
		return nil
	case bytes.Equal(trimmed, []byte("true")):
		return fmt.Errorf("types: edited field was JSON true, which Reddit never emits for modern objects")
	case bytes.Equal(trimmed, []byte("null")):
		e.At = nil
		return nil
	}
	var ts float64
	if err := json.Unmarshal(trimmed, &ts); err != nil {
		return fmt.Errorf("types: unrecognized shape for edited field: %s", trimmed)
	}
	e.At = &ts
	return nil
}

// Distinguished marks a comment or post as authored in a privileged
// capacity.
type Distinguished int

const (
	DistinguishedNone Distinguished = iota
	DistinguishedModerator
	DistinguishedAdmin
	DistinguishedSpecial
)

func (d Distinguished) String() string {
	switch d {
	case DistinguishedModerator:
		return "moderator"
	case DistinguishedAdmin:
		return "admin"
	case DistinguishedSpecial:
		return "special"
	default:
		return ""
	}
}

func (d Distinguished) MarshalJSON() ([]byte, error) {
	if d == DistinguishedNone {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Distinguished) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = DistinguishedNone
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("types: distinguished must be null or a string: %w", err)
	}
	switch s {
	case "moderator":
		*d = DistinguishedModerator
	case "admin":
		*d = DistinguishedAdmin
	case "special":
		*d = DistinguishedSpecial
	default:
		return fmt.Errorf("types: unrecognized distinguished value %q", s)
	}
	return nil
}
