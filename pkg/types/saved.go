package types

import (
	"encoding/json"
	"fmt"
)

// SavedItem is one entry in a user's saved/upvoted/downvoted listing: either
// a submission (kind "t3") or a comment (kind "t1").
type SavedItem struct {
	Submission *Submission
	Comment    *LatestComment
}

func (s *SavedItem) UnmarshalJSON(data []byte) error {
	var raw RawThing
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "t3":
		var sub Submission
		if err := json.Unmarshal(raw.Data, &sub); err != nil {
			return err
		}
		s.Submission = &sub
	case "t1":
		var cm LatestComment
		if err := json.Unmarshal(raw.Data, &cm); err != nil {
			return err
		}
		s.Comment = &cm
	default:
		return fmt.Errorf("types: unrecognized saved-item kind %q", raw.Kind)
	}
	return nil
}

func (s SavedItem) MarshalJSON() ([]byte, error) {
	if s.Submission != nil {
		return json.Marshal(RawThingOf("t3", s.Submission))
	}
	if s.Comment != nil {
		return json.Marshal(RawThingOf("t1", s.Comment))
	}
	return []byte("null"), nil
}
