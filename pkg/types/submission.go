package types

import (
	"encoding/json"
	"fmt"
)

// PreviewImageSource is one resolution of a submission preview image.
type PreviewImageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PreviewImage is a submission's preview image plus its alternate
// resolutions.
type PreviewImage struct {
	Source      PreviewImageSource   `json:"source"`
	Resolutions []PreviewImageSource `json:"resolutions"`
	ID          string               `json:"id"`
}

// SubmissionPreview wraps the images Reddit pre-renders for a link post.
type SubmissionPreview struct {
	Images  []PreviewImage `json:"images"`
	Enabled bool           `json:"enabled"`
}

// Submission is a Reddit post record.
type Submission struct {
	ThingData
	Created
	Domain              string            `json:"domain"`
	Subreddit           string            `json:"subreddit"`
	SubredditID         Fullname          `json:"subreddit_id"`
	SubredditNamePrefix string            `json:"subreddit_name_prefixed"`
	SelfText            string            `json:"selftext"`
	SelfTextHTML        *string           `json:"selftext_html"`
	Author              string            `json:"author"`
	AuthorFlairCSSClass *string           `json:"author_flair_css_class"`
	AuthorFlairText     *string           `json:"author_flair_text"`
	Title               string            `json:"title"`
	URL                 string            `json:"url"`
	Permalink           string            `json:"permalink"`
	Thumbnail           string            `json:"thumbnail"`
	Score               float64           `json:"score"`
	Ups                 float64           `json:"ups"`
	Downs               float64           `json:"downs"`
	UpvoteRatio         float64           `json:"upvote_ratio"`
	NumComments         int               `json:"num_comments"`
	Over18              bool              `json:"over_18"`
	Spoiler             bool              `json:"spoiler"`
	Hidden              bool              `json:"hidden"`
	IsSelf              bool              `json:"is_self"`
	IsGallery           bool              `json:"is_gallery"`
	IsVideo             bool              `json:"is_video"`
	Locked              bool              `json:"locked"`
	Stickied            bool              `json:"stickied"`
	Archived            bool              `json:"archived"`
	Clicked             bool              `json:"clicked"`
	Visited             bool              `json:"visited"`
	Quarantine          bool              `json:"quarantine"`
	Saved               bool              `json:"saved"`
	HideScore           bool              `json:"hide_score"`
	Gilded              int               `json:"gilded"`
	Edited              Edited            `json:"edited"`
	Distinguished       Distinguished     `json:"distinguished"`
	LinkFlairText       *string           `json:"link_flair_text"`
	LinkFlairTemplateID *string           `json:"link_flair_template_id"`
	SuggestedSort       *string           `json:"suggested_sort"`
	Preview             SubmissionPreview `json:"preview"`
	GalleryData         json.RawMessage   `json:"gallery_data,omitempty"`
	MediaMetadata       json.RawMessage   `json:"media_metadata,omitempty"`
	Moderation          *SubmissionModeration `json:"-"`
}

// submissionAlias exists purely so UnmarshalJSON can decode into the same
// field set without recursing into itself.
type submissionAlias Submission

func (s *Submission) UnmarshalJSON(data []byte) error {
	var a submissionAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Submission(a)

	var peek struct {
		CanModPost bool `json:"can_mod_post"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return err
	}
	if peek.CanModPost {
		var mod SubmissionModeration
		if err := json.Unmarshal(data, &mod); err != nil {
			return fmt.Errorf("types: decoding submission moderation block: %w", err)
		}
		s.Moderation = &mod
	}
	return nil
}

func (s Submission) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(submissionAlias(s))
	if err != nil {
		return nil, err
	}
	if s.Moderation == nil {
		return raw, nil
	}
	modRaw, err := json.Marshal(s.Moderation)
	if err != nil {
		return nil, err
	}
	return mergeJSONObjects(raw, modRaw)
}

// mergeJSONObjects flattens b's keys into a, b taking precedence.
func mergeJSONObjects(a, b []byte) ([]byte, error) {
	var am, bm map[string]json.RawMessage
	if err := json.Unmarshal(a, &am); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &bm); err != nil {
		return nil, err
	}
	for k, v := range bm {
		am[k] = v
	}
	return json.Marshal(am)
}

// SubmissionModeration is decoded only when a submission's JSON carries
// can_mod_post: true; it is never present to a non-moderator viewer.
type SubmissionModeration struct {
	CanModPost    bool              `json:"can_mod_post"`
	Approved      bool              `json:"approved"`
	ApprovedBy    *string           `json:"approved_by"`
	ApprovedAtUTC *float64          `json:"approved_at_utc"`
	BannedBy      *string           `json:"banned_by"`
	BannedAtUTC   *float64          `json:"banned_at_utc"`
	RemovalReason *string           `json:"removal_reason"`
	Removed       bool              `json:"removed"`
	Spam          bool              `json:"spam"`
	IgnoreReports bool              `json:"ignore_reports"`
	NumReports    int               `json:"num_reports"`
	ModReports    []ModeratorReport `json:"mod_reports"`
	UserReports   []UserReport      `json:"user_reports"`
	ReportReasons []string          `json:"report_reasons"`
}

type moderationAlias SubmissionModeration

func (m *SubmissionModeration) UnmarshalJSON(data []byte) error {
	var a moderationAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = SubmissionModeration(a)
	m.CanModPost = true
	return nil
}

func (m SubmissionModeration) MarshalJSON() ([]byte, error) {
	a := moderationAlias(m)
	a.CanModPost = true
	return json.Marshal(a)
}
