package graw

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jamesprial/graw-reddit/internal"
	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"github.com/jamesprial/graw-reddit/pkg/types"
)

// Submission wraps a decoded post with a back-reference to the client that
// produced it, so reply/edit/moderation calls only need the post's own
// fullname plus new text -- never the whole record.
type Submission struct {
	types.Submission
	client client
}

func newSubmission(c client, data types.Submission) *Submission {
	return &Submission{Submission: data, client: c}
}

func (s *Submission) authed() (*AuthedClient, error) {
	a, ok := s.client.(*AuthedClient)
	if !ok {
		return nil, pkgerrs.NewOAuthClientRequiredError("submission operation")
	}
	return a, nil
}

// Reply posts a top-level comment on this submission.
func (s *Submission) Reply(ctx context.Context, text string) (*Comment, error) {
	a, err := s.authed()
	if err != nil {
		return nil, err
	}
	return postComment(ctx, a, s.Name, text)
}

// Edit replaces this submission's self-text.
func (s *Submission) Edit(ctx context.Context, text string) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return editUserText(ctx, a, s.Name, text)
}

// Remove removes the submission, optionally marking it as spam.
func (s *Submission) Remove(ctx context.Context, spam bool) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return removeThing(ctx, a, s.Name, spam)
}

// Lock prevents further comments on this submission.
func (s *Submission) Lock(ctx context.Context) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return lockThing(ctx, a, s.Name, true)
}

// Unlock re-enables comments on this submission.
func (s *Submission) Unlock(ctx context.Context) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return lockThing(ctx, a, s.Name, false)
}

// Distinguish marks the submission as authored in a privileged capacity.
// how is one of "no", "yes", "admin", "special"; sticky additionally pins
// the distinguished comment/post to the top when applicable.
func (s *Submission) Distinguish(ctx context.Context, how string, sticky bool) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return distinguishThing(ctx, a, s.Name, how, sticky)
}

// Sticky pins or unpins the submission within its subreddit. num selects the
// slot (1 or 2) when state is true; ignored when unstickying.
func (s *Submission) Sticky(ctx context.Context, state bool, num int) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("id", s.Name.Full())
	form.Set("state", strconv.FormatBool(state))
	if state && num != 0 {
		form.Set("num", strconv.Itoa(num))
	}
	_, err = post(ctx, a, internal.NewEndpoint("api/set_subreddit_sticky"), form)
	return err
}

// SelectFlair applies a flair template to this submission.
func (s *Submission) SelectFlair(ctx context.Context, templateID string) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("flair_template_id", templateID)
	form.Set("text", "")
	form.Set("link", s.Name.Full())
	_, err = post(ctx, a, internal.NewEndpoint(fmt.Sprintf("r/%s/api/selectflair", s.Subreddit)), form)
	return err
}

// Report flags the submission for moderator review.
func (s *Submission) Report(ctx context.Context, reason string) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return reportThing(ctx, a, s.Name, reason)
}

// Save bookmarks the submission to the authenticated user's saved list.
func (s *Submission) Save(ctx context.Context) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return saveThing(ctx, a, s.Name, true)
}

// Unsave removes the submission from the authenticated user's saved list.
func (s *Submission) Unsave(ctx context.Context) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	return saveThing(ctx, a, s.Name, false)
}

// Comments fetches the submission's comment tree.
func (s *Submission) Comments(ctx context.Context, opt types.FeedOption) (*Listing[*Comment], *Submission, error) {
	return articleComments(ctx, s.client, s.Subreddit, s.ID, opt)
}

// CommentTree fetches the submission's comment tree wrapped in the
// CommentTree traversal helpers, after the depth guard of
// Subreddit.CommentTree, rather than as the []*Comment listing Comments
// returns.
func (s *Submission) CommentTree(ctx context.Context, opt types.FeedOption) (CommentTree, error) {
	return (&Subreddit{client: s.client, Name: s.Subreddit}).CommentTree(ctx, s.ID, opt)
}

// submitForm builds the shared fields of a post-submission request.
func submitForm(req types.SubmissionSubmitRequest) url.Values {
	form := url.Values{}
	form.Set("sr", req.Subreddit)
	form.Set("title", req.Title)
	form.Set("kind", string(req.Kind))
	switch req.Kind {
	case types.SubmissionKindSelf:
		if req.RichtextJSON != "" {
			form.Set("richtext_json", req.RichtextJSON)
		} else {
			form.Set("text", req.Text)
		}
	case types.SubmissionKindLink:
		form.Set("url", req.URL)
	}
	if req.Resubmit {
		form.Set("resubmit", "true")
	}
	form.Set("sendreplies", strconv.FormatBool(req.SendReplies))
	if req.NSFW {
		form.Set("nsfw", "true")
	}
	if req.Spoiler {
		form.Set("spoiler", "true")
	}
	if req.FlairID != "" {
		form.Set("flair_id", req.FlairID)
	}
	if req.FlairText != "" {
		form.Set("flair_text", req.FlairText)
	}
	return form
}

// Submit creates a new post per req, then fetches and returns the full
// submission record via by_id.
func (a *AuthedClient) Submit(ctx context.Context, req types.SubmissionSubmitRequest) (*Submission, error) {
	created, err := postWithResponse[types.LazyThingCreatedData](ctx, a, internal.NewEndpoint("api/submit"), submitForm(req), "submit post")
	if err != nil {
		return nil, err
	}
	return a.ByID(ctx, created.Name)
}

// ByID fetches a single submission by its t3 fullname.
func (a *AuthedClient) ByID(ctx context.Context, name types.Fullname) (*Submission, error) {
	var listing types.BasicListing[types.Submission]
	if err := getJSON(ctx, a, internal.NewEndpoint("by_id/"+name.Full()), &listing); err != nil {
		return nil, err
	}
	if len(listing.Data.Children) == 0 {
		return nil, pkgerrs.NewParseError("by_id", fmt.Errorf("no submission found for %s", name.Full()))
	}
	return newSubmission(a, listing.Data.Children[0].Data), nil
}
