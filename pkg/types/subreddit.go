package types

import "encoding/json"

// Limits Reddit enforces on submitted content; used by the validation
// package and by callers building submit/edit forms.
const (
	MaxPostTitleLength   = 300
	MaxCommentBodyLength = 10000
)

// SubredditData is the payload of a subreddit's "about" endpoint.
type SubredditData struct {
	ThingData
	DisplayName       string `json:"display_name"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	DescriptionHTML   string `json:"description_html"`
	PublicDescription string `json:"public_description"`
	SubredditType     string `json:"subreddit_type"`
	SubmissionType    string `json:"submission_type"`
	Subscribers       int64  `json:"subscribers"`
	AccountsActive    int    `json:"accounts_active"`
	Over18            bool   `json:"over18"`
	URL               string `json:"url"`
	UserIsModerator   *bool  `json:"user_is_moderator"`
	UserIsSubscriber  *bool  `json:"user_is_subscriber"`
	UserIsContributor *bool  `json:"user_is_contributor"`
	UserIsBanned      *bool  `json:"user_is_banned"`
}

// AccountData is the payload of a user's "about" endpoint.
type AccountData struct {
	ThingData
	Created
	CommentKarma     int  `json:"comment_karma"`
	LinkKarma        int  `json:"link_karma"`
	IsFriend         bool `json:"is_friend"`
	IsGold           bool `json:"is_gold"`
	IsMod            bool `json:"is_mod"`
	HasVerifiedEmail bool `json:"has_verified_email"`
	Over18           bool `json:"over_18"`
	InboxCount       int  `json:"inbox_count,omitempty"`
}

// ModeratorData is one row of a subreddit's moderator list.
type ModeratorData struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	AuthorFlairText *string  `json:"author_flair_text"`
	ModPermissions  []string `json:"mod_permissions"`
}

// ModActionType is the "type" query filter for a subreddit's mod log.
type ModActionType string

// ModActionData is one entry in a subreddit moderation log.
type ModActionData struct {
	ID           string  `json:"id"`
	Mod          string  `json:"mod"`
	Action       string  `json:"action"`
	TargetAuthor *string `json:"target_author"`
	Details      string  `json:"details"`
	Description  string  `json:"description"`
	CreatedUTC   float64 `json:"created_utc"`
}

// FlairSelection is the response to api/flairselector.
type FlairSelection struct {
	Current json.RawMessage `json:"current"`
	Choices []FlairChoice   `json:"choices"`
}

// FlairChoice is one entry offered by the flair selector.
type FlairChoice struct {
	TemplateID   string `json:"flair_template_id"`
	Text         string `json:"flair_text"`
	TextEditable bool   `json:"flair_text_editable"`
	CSSClass     string `json:"flair_css_class"`
}
