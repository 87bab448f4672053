package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
)

// More is a placeholder in a comment tree for an unexpanded subtree.
type More struct {
	ThingData
	ParentID Fullname `json:"parent_id"`
	Count    int      `json:"count"`
	Depth    int      `json:"depth"`
	Children []string `json:"children"`
}

// CommentOrMore is one child of a comment listing: either a comment (kind
// "t1") or a placeholder (kind "more").
type CommentOrMore struct {
	Comment *ArticleComment
	More    *More
}

func (c *CommentOrMore) UnmarshalJSON(data []byte) error {
	var raw RawThing
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "t1":
		var cm ArticleComment
		if err := json.Unmarshal(raw.Data, &cm); err != nil {
			return err
		}
		c.Comment = &cm
	case "more":
		var m More
		if err := json.Unmarshal(raw.Data, &m); err != nil {
			return err
		}
		c.More = &m
	default:
		return fmt.Errorf("types: unrecognized comment-tree child kind %q", raw.Kind)
	}
	return nil
}

func (c CommentOrMore) MarshalJSON() ([]byte, error) {
	if c.Comment != nil {
		return json.Marshal(RawThingOf("t1", c.Comment))
	}
	if c.More != nil {
		return json.Marshal(RawThingOf("more", c.More))
	}
	return []byte("null"), nil
}

// RawThingOf builds a {kind, data} envelope for marshaling.
func RawThingOf(kind string, data any) map[string]any {
	return map[string]any{"kind": kind, "data": data}
}

// ArticleReplies is the sum type Reddit uses for a comment's replies field:
// either a nested listing of comments/more, or the empty string meaning "no
// replies". Any other bare string is treated leniently as Empty.
type ArticleReplies struct {
	Listing *Listing[CommentOrMore]
}

// Empty reports whether this value decoded from the empty-string form.
func (a ArticleReplies) Empty() bool {
	return a.Listing == nil
}

func (a *ArticleReplies) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		a.Listing = nil
		return nil
	}
	var thing Thing[Listing[CommentOrMore]]
	if err := json.Unmarshal(data, &thing); err != nil {
		return err
	}
	a.Listing = &thing.Data
	return nil
}

func (a ArticleReplies) MarshalJSON() ([]byte, error) {
	if a.Listing == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(RawThingOf("Listing", *a.Listing))
}

// CommentCommon holds the fields shared across every comment variant.
type CommentCommon struct {
	ThingData
	Votable
	Created
	Author              string        `json:"author"`
	AuthorFlairCSSClass *string       `json:"author_flair_css_class"`
	AuthorFlairText     *string       `json:"author_flair_text"`
	Body                string        `json:"body"`
	BodyHTML            string        `json:"body_html"`
	CanGild             bool          `json:"can_gild"`
	Controversiality    int           `json:"controversiality"`
	Distinguished       Distinguished `json:"distinguished"`
	Edited              Edited        `json:"edited"`
	Gilded              int           `json:"gilded"`
	IsSubmitter         bool          `json:"is_submitter"`
	LinkID              Fullname      `json:"link_id"`
	Locked              bool          `json:"locked"`
	ModNote             *string       `json:"mod_note"`
	NumReports          *int          `json:"num_reports"`
	ParentID            Fullname      `json:"parent_id"`
	Permalink           string        `json:"permalink"`
	Removed             bool          `json:"removed"`
	Saved               bool          `json:"saved"`
	Score               float64       `json:"score"`
	ScoreHidden         bool          `json:"score_hidden"`
	SendReplies         bool          `json:"send_replies"`
	Spam                bool          `json:"spam"`
	Stickied            bool          `json:"stickied"`
	Subreddit           string        `json:"subreddit"`
	SubredditID         Fullname      `json:"subreddit_id"`
	SubredditNamePrefix string        `json:"subreddit_name_prefixed"`
	TotalAwardsReceived int           `json:"total_awards_received"`
}

// unescapeBody HTML-entity-unescapes the body field at ingest, leaving
// body_html untouched.
func (c *CommentCommon) unescapeBody() {
	c.Body = html.UnescapeString(c.Body)
}

// ArticleComment is a comment fetched as part of a submission's comment
// tree: it carries depth and the recursive replies field.
type ArticleComment struct {
	CommentCommon
	Depth   int            `json:"depth"`
	Replies ArticleReplies `json:"replies"`
}

func (c *ArticleComment) UnmarshalJSON(data []byte) error {
	type alias ArticleComment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = ArticleComment(a)
	c.unescapeBody()
	return nil
}

// LatestComment is a comment fetched from a subreddit's /comments feed or a
// user's comment history: no tree, but link/aggregate metadata.
type LatestComment struct {
	CommentCommon
	LinkAuthor    string `json:"link_author"`
	LinkPermalink string `json:"link_permalink"`
	LinkTitle     string `json:"link_title"`
	LinkURL       string `json:"link_url"`
}

func (c *LatestComment) UnmarshalJSON(data []byte) error {
	type alias LatestComment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = LatestComment(a)
	c.unescapeBody()
	return nil
}

// CreatedComment is the bare variant returned right after posting a reply.
type CreatedComment struct {
	CommentCommon
}

func (c *CreatedComment) UnmarshalJSON(data []byte) error {
	type alias CreatedComment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = CreatedComment(a)
	c.unescapeBody()
	return nil
}

// UserReport is Reddit's positional 4-tuple report record:
// ["rule text", count, unknown1, unknown2].
type UserReport struct {
	Rule     string
	Count    int
	Unknown1 bool
	Unknown2 bool
}

func (u *UserReport) UnmarshalJSON(data []byte) error {
	var tuple [4]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("types: user report must be a 4-element array: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &u.Rule); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[1], &u.Count); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[2], &u.Unknown1); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[3], &u.Unknown2); err != nil {
		return err
	}
	return nil
}

func (u UserReport) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]any{u.Rule, u.Count, u.Unknown1, u.Unknown2})
}

// ModeratorReport is a [rule, reason] pair left by a subreddit moderator.
type ModeratorReport struct {
	Rule   string
	Reason string
}

func (m *ModeratorReport) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("types: moderator report must be a 2-element array: %w", err)
	}
	m.Rule, m.Reason = pair[0], pair[1]
	return nil
}

func (m ModeratorReport) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{m.Rule, m.Reason})
}
