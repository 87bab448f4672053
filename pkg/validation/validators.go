// Package validation provides format and semantic checks for decoded Reddit
// objects, layered on top of (not duplicating) the wire-level Fullname
// parsing in pkg/types.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jamesprial/graw-reddit/pkg/types"
)

var (
	base36Regex    = regexp.MustCompile(`^[0-9a-z]+$`)
	subredditRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,21}$`)
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	permalinkRegex = regexp.MustCompile(`^/r/[a-zA-Z0-9_]{3,21}/comments/[0-9a-z]+(/[^/]+/?([0-9a-z]+/?)?)?$`)
)

// IsValidBase36 checks if a string is a valid base36 encoded ID.
func IsValidBase36(s string) bool {
	return s != "" && base36Regex.MatchString(s)
}

// IsValidSubreddit checks if a string is a valid subreddit name.
func IsValidSubreddit(s string) bool {
	return subredditRegex.MatchString(s)
}

// IsValidUsername checks if a string is a valid Reddit username.
func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// IsValidFullname reports whether s parses as a Fullname. Kinds t1 through
// t8 are all accepted; the wire format does not restrict which numbers are
// in active use.
func IsValidFullname(s string) bool {
	_, err := types.ParseFullname(s)
	return err == nil
}

// IsValidPermalink checks if a string is a valid Reddit permalink.
func IsValidPermalink(s string) bool {
	return s != "" && permalinkRegex.MatchString(s)
}

func joinValidationErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// ValidateRedditObject validates any type implementing RedditObject.
func ValidateRedditObject(obj types.RedditObject) error {
	if obj == nil {
		return fmt.Errorf("reddit object is nil")
	}
	var errs []error
	if id := obj.GetID(); id != "" && !IsValidBase36(id) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", id))
	}
	if name := obj.GetName(); name != "" && !IsValidFullname(name) {
		errs = append(errs, fmt.Errorf("Name has invalid fullname format: %s", name))
	}
	if len(errs) > 0 {
		return fmt.Errorf("reddit object validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateCreated checks that timestamps fall between Reddit's founding and
// a short clock-skew grace period in the future.
func ValidateCreated(c *types.Created) error {
	if c == nil {
		return fmt.Errorf("created is nil")
	}
	var errs []error

	maxTime := float64(time.Now().Add(time.Hour).Unix())
	if c.CreatedUTC > maxTime {
		errs = append(errs, fmt.Errorf("CreatedUTC is in the future: %f", c.CreatedUTC))
	}

	minTime := float64(time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC).Unix())
	if c.CreatedUTC < minTime {
		errs = append(errs, fmt.Errorf("CreatedUTC is before Reddit existed: %f", c.CreatedUTC))
	}

	if len(errs) > 0 {
		return fmt.Errorf("created validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateSubmission validates a decoded Submission.
func ValidateSubmission(s *types.Submission) error {
	if s == nil {
		return fmt.Errorf("submission is nil")
	}
	var errs []error

	if err := ValidateRedditObject(s.ThingData); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateCreated(&s.Created); err != nil {
		errs = append(errs, err)
	}
	if s.Title == "" {
		errs = append(errs, fmt.Errorf("Title is required"))
	} else if len(s.Title) > types.MaxPostTitleLength {
		errs = append(errs, fmt.Errorf("Title exceeds %d character limit", types.MaxPostTitleLength))
	}
	if s.Subreddit == "" || !IsValidSubreddit(s.Subreddit) {
		errs = append(errs, fmt.Errorf("Subreddit has invalid format: %s", s.Subreddit))
	}
	if s.Author != "" && s.Author != "[deleted]" && !IsValidUsername(s.Author) {
		errs = append(errs, fmt.Errorf("Author has invalid username format: %s", s.Author))
	}
	if s.UpvoteRatio < 0 || s.UpvoteRatio > 1 {
		errs = append(errs, fmt.Errorf("UpvoteRatio must be between 0 and 1, got %f", s.UpvoteRatio))
	}
	if s.NumComments < 0 {
		errs = append(errs, fmt.Errorf("NumComments cannot be negative, got %d", s.NumComments))
	}

	if len(errs) > 0 {
		return fmt.Errorf("submission validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateCommentCommon validates the fields shared by every comment
// variant.
func ValidateCommentCommon(c *types.CommentCommon) error {
	if c == nil {
		return fmt.Errorf("comment is nil")
	}
	var errs []error

	if err := ValidateRedditObject(c.ThingData); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateCreated(&c.Created); err != nil {
		errs = append(errs, err)
	}
	if len(c.Body) > types.MaxCommentBodyLength {
		errs = append(errs, fmt.Errorf("Body exceeds %d character limit", types.MaxCommentBodyLength))
	}
	if c.Subreddit == "" || !IsValidSubreddit(c.Subreddit) {
		errs = append(errs, fmt.Errorf("Subreddit has invalid format: %s", c.Subreddit))
	}
	if c.Author != "" && c.Author != "[deleted]" && !IsValidUsername(c.Author) {
		errs = append(errs, fmt.Errorf("Author has invalid username format: %s", c.Author))
	}
	if c.ParentID.IsZero() {
		errs = append(errs, fmt.Errorf("ParentID is required"))
	}
	if c.LinkID.IsZero() {
		errs = append(errs, fmt.Errorf("LinkID is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("comment validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateSubredditData validates a subreddit's about-page payload.
func ValidateSubredditData(s *types.SubredditData) error {
	if s == nil {
		return fmt.Errorf("subreddit is nil")
	}
	var errs []error

	if err := ValidateRedditObject(s.ThingData); err != nil {
		errs = append(errs, err)
	}
	if s.DisplayName == "" || !IsValidSubreddit(s.DisplayName) {
		errs = append(errs, fmt.Errorf("DisplayName has invalid format: %s", s.DisplayName))
	}
	if s.Subscribers < 0 {
		errs = append(errs, fmt.Errorf("Subscribers cannot be negative, got %d", s.Subscribers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("subreddit validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateMessage validates a decoded Message.
func ValidateMessage(m *types.Message) error {
	if m == nil {
		return fmt.Errorf("message is nil")
	}
	var errs []error

	if err := ValidateRedditObject(m.ThingData); err != nil {
		errs = append(errs, err)
	}
	if m.Body == "" {
		errs = append(errs, fmt.Errorf("Body is required"))
	}
	if m.Subject == "" {
		errs = append(errs, fmt.Errorf("Subject is required"))
	}
	if m.Author != "" && m.Author != "[deleted]" && !IsValidUsername(m.Author) {
		errs = append(errs, fmt.Errorf("Author has invalid username format: %s", m.Author))
	}

	if len(errs) > 0 {
		return fmt.Errorf("message validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateAccountData validates a decoded AccountData.
func ValidateAccountData(a *types.AccountData) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}
	var errs []error

	if err := ValidateRedditObject(a.ThingData); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateCreated(&a.Created); err != nil {
		errs = append(errs, err)
	}
	if a.CommentKarma < 0 {
		errs = append(errs, fmt.Errorf("CommentKarma cannot be negative, got %d", a.CommentKarma))
	}
	if a.LinkKarma < 0 {
		errs = append(errs, fmt.Errorf("LinkKarma cannot be negative, got %d", a.LinkKarma))
	}

	if len(errs) > 0 {
		return fmt.Errorf("account validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}

// ValidateMore validates a decoded More placeholder.
func ValidateMore(m *types.More) error {
	if m == nil {
		return fmt.Errorf("more is nil")
	}
	var errs []error
	for i, childID := range m.Children {
		if !IsValidBase36(childID) {
			errs = append(errs, fmt.Errorf("child ID at index %d has invalid format: %s", i, childID))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("more validation failed: %w", joinValidationErrors(errs))
	}
	return nil
}
