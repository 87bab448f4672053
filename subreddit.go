package graw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jamesprial/graw-reddit/internal"
	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"github.com/jamesprial/graw-reddit/pkg/types"
	"github.com/jamesprial/graw-reddit/pkg/validation"
)

// Subreddit is a handle for operations scoped to one subreddit. Operations
// are sent through whichever client tier the handle was built from; only
// AcceptModeratorInvite checks the tier, returning OAuthClientRequiredError
// for anything but an AuthedClient. The moderator listings (Moderators,
// ListFlairs, ListRemovalReasons, ListModLog) make no such check.
type Subreddit struct {
	client client
	Name   string
}

// Subreddit returns a handle scoped to the named subreddit.
func (u *UnauthClient) Subreddit(name string) *Subreddit { return &Subreddit{client: u, Name: name} }

// Subreddit returns a handle scoped to the named subreddit.
func (o *OAuthClient) Subreddit(name string) *Subreddit { return &Subreddit{client: o, Name: name} }

// Subreddit returns a handle scoped to the named subreddit.
func (a *AuthedClient) Subreddit(name string) *Subreddit { return &Subreddit{client: a, Name: name} }

func (s *Subreddit) path(tail string) string {
	return fmt.Sprintf("r/%s/%s", s.Name, tail)
}

func (s *Subreddit) authed() (*AuthedClient, error) {
	a, ok := s.client.(*AuthedClient)
	if !ok {
		return nil, pkgerrs.NewOAuthClientRequiredError("subreddit operation")
	}
	return a, nil
}

func wrapSubmission(c client, d types.Submission) *Submission { return newSubmission(c, d) }

// Hot fetches the subreddit's hot listing.
func (s *Subreddit) Hot(ctx context.Context, opt types.FeedOption) (*Listing[*Submission], error) {
	return fetchListing(ctx, s.client, internal.NewEndpoint(s.path("hot")), opt, wrapSubmission)
}

// New fetches the subreddit's newest-first listing.
func (s *Subreddit) New(ctx context.Context, opt types.FeedOption) (*Listing[*Submission], error) {
	return fetchListing(ctx, s.client, internal.NewEndpoint(s.path("new")), opt, wrapSubmission)
}

// Rising fetches the subreddit's rising listing.
func (s *Subreddit) Rising(ctx context.Context, opt types.FeedOption) (*Listing[*Submission], error) {
	return fetchListing(ctx, s.client, internal.NewEndpoint(s.path("rising")), opt, wrapSubmission)
}

// Top fetches the subreddit's top listing for opt.Period.
func (s *Subreddit) Top(ctx context.Context, opt types.FeedOption) (*Listing[*Submission], error) {
	return fetchListing(ctx, s.client, internal.NewEndpoint(s.path("top")), opt, wrapSubmission)
}

// Controversial fetches the subreddit's most-controversial listing for
// opt.Period.
func (s *Subreddit) Controversial(ctx context.Context, opt types.FeedOption) (*Listing[*Submission], error) {
	return fetchListing(ctx, s.client, internal.NewEndpoint(s.path("controversial")), opt, wrapSubmission)
}

// Search runs a subreddit-scoped search.
func (s *Subreddit) Search(ctx context.Context, query string, opt types.FeedOption) (*Listing[*Submission], error) {
	ep := internal.NewEndpoint(s.path("search")).WithQuery("q", query).WithQuery("restrict_sr", "true")
	return fetchListing(ctx, s.client, ep, opt, wrapSubmission)
}

// About fetches the subreddit's about-page metadata.
func (s *Subreddit) About(ctx context.Context) (*types.SubredditData, error) {
	var thing types.Thing[types.SubredditData]
	if err := getJSON(ctx, s.client, internal.NewEndpoint(s.path("about")), &thing); err != nil {
		return nil, err
	}
	if err := validation.ValidateSubredditData(&thing.Data); err != nil {
		s.client.logger().Warn("decoded subreddit failed validation", slog.String("subreddit", s.Name), slog.String("err", err.Error()))
	}
	return &thing.Data, nil
}

// LatestComments fetches the subreddit's /comments feed: every new comment
// across the subreddit, newest first, with no tree structure.
func (s *Subreddit) LatestComments(ctx context.Context, opt types.FeedOption) (*Listing[*Comment], error) {
	return fetchListing(ctx, s.client, internal.NewEndpoint(s.path("comments")), opt, func(c client, d types.LatestComment) *Comment {
		return newLatestComment(c, d)
	})
}

// ArticleComments fetches a submission's full comment tree by post id,
// returning both the comment listing and the submission it belongs to.
func (s *Subreddit) ArticleComments(ctx context.Context, postID string, opt types.FeedOption) (*Listing[*Comment], *Submission, error) {
	return articleComments(ctx, s.client, s.Name, postID, opt)
}

// fetchArticleComments issues the GET and decodes the raw two-element
// submission/comments array shared by articleComments and CommentTree.
func fetchArticleComments(ctx context.Context, c client, subreddit, postID string, opt types.FeedOption) (*internal.ArticleComments, error) {
	ep := internal.NewEndpoint(fmt.Sprintf("r/%s/comments/%s", subreddit, postID))
	for _, kv := range opt.Params() {
		ep.WithQuery(kv[0], kv[1])
	}
	body, err := get(ctx, c, ep)
	if err != nil {
		return nil, err
	}
	parser := internal.NewParser(nil)
	return parser.DecodeArticleComments(body)
}

// articleComments is the shared implementation behind
// Subreddit.ArticleComments and Submission.Comments.
func articleComments(ctx context.Context, c client, subreddit, postID string, opt types.FeedOption) (*Listing[*Comment], *Submission, error) {
	decoded, err := fetchArticleComments(ctx, c, subreddit, postID, opt)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*Comment, 0, len(decoded.Listing.Children))
	for _, child := range decoded.Listing.Children {
		switch {
		case child.Comment != nil:
			items = append(items, newCommentTree(c, child.Comment))
		}
	}
	listing := &Listing[*Comment]{client: c, Before: decoded.Listing.Before, After: decoded.Listing.After, Items: items}
	return listing, newSubmission(c, *decoded.Submission), nil
}

// CommentTree fetches a submission's comment tree the same way
// ArticleComments does, and returns it wrapped in the traversal helpers
// (Filter/Find/GetByID/Walk) instead of the raw nested Replies graph.
// internal.Parser.FlattenComments is run first, purely for its cycle/depth
// guard and validation side effects -- its own flattened slice isn't the
// tree CommentTree is built from, since CommentTree already recurses into
// each comment's Replies itself; feeding it an already-flattened list would
// walk every descendant twice.
func (s *Subreddit) CommentTree(ctx context.Context, postID string, opt types.FeedOption) (CommentTree, error) {
	decoded, err := fetchArticleComments(ctx, s.client, s.Name, postID, opt)
	if err != nil {
		return nil, err
	}
	parser := internal.NewParser(nil)
	if _, _, err := parser.FlattenComments(decoded.Listing); err != nil {
		return nil, err
	}
	top := make([]*types.ArticleComment, 0, len(decoded.Listing.Children))
	for _, child := range decoded.Listing.Children {
		if child.Comment != nil {
			top = append(top, child.Comment)
		}
	}
	return NewCommentTree(top), nil
}

// Sticky fetches the subreddit's stickied post, or (nil, nil) if there is
// none -- Reddit signals "no sticky" with a 404, which this method treats as
// success-with-no-result rather than an error; every other non-2xx status
// still surfaces.
func (s *Subreddit) Sticky(ctx context.Context, num int) (*Submission, error) {
	ep := internal.NewEndpoint(s.path("about/sticky"))
	if num != 0 {
		ep.WithQuery("num", fmt.Sprintf("%d", num))
	}
	body, err := get(ctx, s.client, ep)
	if err != nil {
		var fullErr *pkgerrs.FullNetworkError
		if errors.As(err, &fullErr) && fullErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	parser := internal.NewParser(nil)
	sub, err := parser.DecodeStickySubmission(body)
	if err != nil {
		return nil, err
	}
	return newSubmission(s.client, *sub), nil
}

// Moderators lists the subreddit's moderators.
func (s *Subreddit) Moderators(ctx context.Context) ([]types.ModeratorData, error) {
	var thing types.Thing[struct {
		Children []types.ModeratorData `json:"children"`
	}]
	if err := getJSON(ctx, s.client, internal.NewEndpoint(s.path("about/moderators")), &thing); err != nil {
		return nil, err
	}
	return thing.Data.Children, nil
}

// ListFlairs fetches the flair templates available for the given link's
// flair selector; pass an empty fullname to list post-submission flairs.
func (s *Subreddit) ListFlairs(ctx context.Context, link string) (*types.FlairSelection, error) {
	form := url.Values{}
	if link != "" {
		form.Set("link", link)
	}
	body, err := post(ctx, s.client, internal.NewEndpoint(s.path("api/flairselector")), form)
	if err != nil {
		return nil, err
	}
	var sel types.FlairSelection
	if err := decodeJSON(body, &sel, "flairselector"); err != nil {
		return nil, err
	}
	return &sel, nil
}

// ListRemovalReasons fetches the subreddit's configured removal reasons.
func (s *Subreddit) ListRemovalReasons(ctx context.Context) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := getJSON(ctx, s.client, internal.NewEndpoint(s.path("api/removal_reasons")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListModLog fetches the subreddit's moderation log, optionally filtered by
// action type.
func (s *Subreddit) ListModLog(ctx context.Context, actionType types.ModActionType, opt types.FeedOption) (*Listing[*types.ModActionData], error) {
	ep := internal.NewEndpoint(s.path("about/log"))
	if actionType != "" {
		ep.WithQuery("type", string(actionType))
	}
	return fetchListing(ctx, s.client, ep, opt, func(c client, d types.ModActionData) *types.ModActionData { return &d })
}

// AcceptModeratorInvite accepts a pending moderator invitation for the
// authenticated user.
func (s *Subreddit) AcceptModeratorInvite(ctx context.Context) error {
	a, err := s.authed()
	if err != nil {
		return err
	}
	_, err = post(ctx, a, internal.NewEndpoint(s.path("api/accept_moderator_invite")), url.Values{})
	return err
}
