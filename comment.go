package graw

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/jamesprial/graw-reddit/internal"
	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"github.com/jamesprial/graw-reddit/pkg/types"
)

// Comment wraps a decoded comment with a back-reference to the client that
// produced it. Depth/Replies/More are populated when the comment came from a
// submission's comment tree; LinkAuthor/LinkPermalink/LinkTitle/LinkURL are
// populated when it came from a subreddit's /comments feed or a user's
// comment history instead.
type Comment struct {
	types.CommentCommon
	client client

	Depth   int
	Replies []*Comment
	More    []*types.More

	LinkAuthor    string
	LinkPermalink string
	LinkTitle     string
	LinkURL       string
}

// newCommentTree recursively wraps a raw tree comment and its replies,
// preserving the client back-reference at every level.
func newCommentTree(c client, raw *types.ArticleComment) *Comment {
	cm := &Comment{CommentCommon: raw.CommentCommon, client: c, Depth: raw.Depth}
	if raw.Replies.Empty() {
		return cm
	}
	for _, child := range raw.Replies.Listing.Children {
		switch {
		case child.Comment != nil:
			cm.Replies = append(cm.Replies, newCommentTree(c, child.Comment))
		case child.More != nil:
			cm.More = append(cm.More, child.More)
		}
	}
	return cm
}

// newLatestComment wraps a comment decoded from a flat feed (no tree).
func newLatestComment(c client, raw types.LatestComment) *Comment {
	return &Comment{
		CommentCommon: raw.CommentCommon,
		client:        c,
		LinkAuthor:    raw.LinkAuthor,
		LinkPermalink: raw.LinkPermalink,
		LinkTitle:     raw.LinkTitle,
		LinkURL:       raw.LinkURL,
	}
}

func (cm *Comment) authed() (*AuthedClient, error) {
	a, ok := cm.client.(*AuthedClient)
	if !ok {
		return nil, pkgerrs.NewOAuthClientRequiredError("comment operation")
	}
	return a, nil
}

// Reply posts a reply to this comment.
func (cm *Comment) Reply(ctx context.Context, text string) (*Comment, error) {
	a, err := cm.authed()
	if err != nil {
		return nil, err
	}
	return postComment(ctx, a, cm.Name, text)
}

// Edit replaces this comment's body.
func (cm *Comment) Edit(ctx context.Context, text string) error {
	a, err := cm.authed()
	if err != nil {
		return err
	}
	return editUserText(ctx, a, cm.Name, text)
}

// Remove removes the comment, optionally marking it as spam.
func (cm *Comment) Remove(ctx context.Context, spam bool) error {
	a, err := cm.authed()
	if err != nil {
		return err
	}
	return removeThing(ctx, a, cm.Name, spam)
}

// Distinguish marks the comment as authored in a privileged capacity.
func (cm *Comment) Distinguish(ctx context.Context, how string, sticky bool) error {
	a, err := cm.authed()
	if err != nil {
		return err
	}
	return distinguishThing(ctx, a, cm.Name, how, sticky)
}

// Report flags the comment for moderator review.
func (cm *Comment) Report(ctx context.Context, reason string) error {
	a, err := cm.authed()
	if err != nil {
		return err
	}
	return reportThing(ctx, a, cm.Name, reason)
}

// Save bookmarks the comment to the authenticated user's saved list.
func (cm *Comment) Save(ctx context.Context) error {
	a, err := cm.authed()
	if err != nil {
		return err
	}
	return saveThing(ctx, a, cm.Name, true)
}

// Unsave removes the comment from the authenticated user's saved list.
func (cm *Comment) Unsave(ctx context.Context) error {
	a, err := cm.authed()
	if err != nil {
		return err
	}
	return saveThing(ctx, a, cm.Name, false)
}

// postComment implements the shared reply-to-a-fullname operation used by
// both Submission.Reply and Comment.Reply: POST api/comment, decode the
// single-element "things" array Reddit returns.
func postComment(ctx context.Context, a *AuthedClient, parent types.Fullname, text string) (*Comment, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("parent", parent.Full())
	created, err := postWithResponse[types.MultipleThingsData[types.CreatedComment]](ctx, a, internal.NewEndpoint("api/comment"), form, "post comment")
	if err != nil {
		return nil, err
	}
	data, err := created.AssumeSingle()
	if err != nil {
		return nil, pkgerrs.NewParseError("post comment", err)
	}
	return &Comment{CommentCommon: data.CommentCommon, client: a}, nil
}

func editUserText(ctx context.Context, a *AuthedClient, thing types.Fullname, text string) error {
	form := url.Values{}
	form.Set("text", text)
	form.Set("thing_id", thing.Full())
	_, err := post(ctx, a, internal.NewEndpoint("api/editusertext"), form)
	return err
}

func removeThing(ctx context.Context, a *AuthedClient, thing types.Fullname, spam bool) error {
	form := url.Values{}
	form.Set("id", thing.Full())
	if spam {
		form.Set("spam", "true")
	} else {
		form.Set("spam", "false")
	}
	_, err := post(ctx, a, internal.NewEndpoint("api/remove"), form)
	return err
}

func lockThing(ctx context.Context, a *AuthedClient, thing types.Fullname, lock bool) error {
	form := url.Values{}
	form.Set("id", thing.Full())
	ep := "api/unlock"
	if lock {
		ep = "api/lock"
	}
	_, err := post(ctx, a, internal.NewEndpoint(ep), form)
	return err
}

func distinguishThing(ctx context.Context, a *AuthedClient, thing types.Fullname, how string, sticky bool) error {
	form := url.Values{}
	form.Set("id", thing.Full())
	form.Set("how", how)
	if sticky {
		form.Set("sticky", "true")
	}
	_, err := post(ctx, a, internal.NewEndpoint("api/distinguish"), form)
	return err
}

func reportThing(ctx context.Context, a *AuthedClient, thing types.Fullname, reason string) error {
	form := url.Values{}
	form.Set("id", thing.Full())
	form.Set("reason", reason)
	_, err := post(ctx, a, internal.NewEndpoint("api/report"), form)
	return err
}

func saveThing(ctx context.Context, a *AuthedClient, thing types.Fullname, save bool) error {
	form := url.Values{}
	form.Set("id", thing.Full())
	ep := "api/unsave"
	if save {
		ep = "api/save"
	}
	_, err := post(ctx, a, internal.NewEndpoint(ep), form)
	return err
}

// NewMoreCommentsRequest builds the request to expand a single "more"
// placeholder; callers expanding several placeholders under the same
// submission can merge their CommentIDs into one MoreCommentsRequest instead
// of issuing one call per placeholder.
func NewMoreCommentsRequest(more *types.More, sort string) types.MoreCommentsRequest {
	return types.MoreCommentsRequest{
		LinkID:     more.ParentID,
		CommentIDs: more.Children,
		Sort:       sort,
		Depth:      more.Depth,
	}
}

// Expand resolves one or more "more" placeholders into the comments they
// represent via api/morechildren.
func (a *AuthedClient) Expand(ctx context.Context, req types.MoreCommentsRequest) ([]*Comment, error) {
	form := url.Values{}
	form.Set("link_id", req.LinkID.Full())
	form.Set("children", strings.Join(req.CommentIDs, ","))
	if req.Sort != "" {
		form.Set("sort", req.Sort)
	}
	if req.Depth != 0 {
		form.Set("depth", strconv.Itoa(req.Depth))
	}
	if req.Limit != 0 {
		form.Set("limit_children", "true")
	}
	things, err := postWithResponse[types.MultipleThingsData[types.ArticleComment]](ctx, a, internal.NewEndpoint("api/morechildren"), form, "expand more")
	if err != nil {
		return nil, err
	}
	out := make([]*Comment, 0, len(things.Things))
	for _, t := range things.Things {
		data := t.Data
		out = append(out, newCommentTree(a, &data))
	}
	return out, nil
}
