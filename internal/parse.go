package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	pkgerrs "github.com/jamesprial/graw-reddit/pkg/errors"
	"github.com/jamesprial/graw-reddit/pkg/types"
	"github.com/jamesprial/graw-reddit/pkg/validation"
)

// MaxCommentDepth bounds recursive descent into a comment's replies,
// guarding against pathological or adversarial trees.
const MaxCommentDepth = 50

// parseContext is pooled per flatten call to avoid reallocating the
// seen-id cycle guard on every comment tree.
type parseContext struct {
	depth   int
	seenIDs map[string]bool
}

// Parser decodes Reddit's two non-generic response shapes: the
// post-article-comments two-element array, and the api_type=json
// PostResponse envelope. Everything else (Thing[T]/Listing[T], Edited,
// Distinguished, ArticleReplies, SubmissionModeration, UserReport) decodes
// directly via encoding/json thanks to the custom (Un)MarshalJSON methods on
// pkg/types, so there is no separate dispatch-by-kind step to hand-maintain.
type Parser struct {
	logger *slog.Logger
	pool   sync.Pool
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logger,
		pool: sync.Pool{
			New: func() any {
				return &parseContext{seenIDs: make(map[string]bool)}
			},
		},
	}
}

func (p *Parser) getCtx() *parseContext {
	ctx := p.pool.Get().(*parseContext)
	ctx.depth = 0
	for k := range ctx.seenIDs {
		delete(ctx.seenIDs, k)
	}
	return ctx
}

func (p *Parser) putCtx(ctx *parseContext) {
	p.pool.Put(ctx)
}

// ArticleComments is the decoded two-element array form Reddit returns from
// GET r/<sub>/comments/<id>: the submission and its top-level comment
// listing.
type ArticleComments struct {
	Submission *types.Submission
	Listing    types.Listing[types.CommentOrMore]
}

// DecodeArticleComments decodes the "[submission listing, comment listing]"
// shape.
func (p *Parser) DecodeArticleComments(body []byte) (*ArticleComments, error) {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, pkgerrs.NewParseError("article comments", fmt.Errorf("expected a two-element array: %w", err))
	}

	var subListing types.BasicListing[types.Submission]
	if err := json.Unmarshal(pair[0], &subListing); err != nil {
		return nil, pkgerrs.NewParseError("article comments: submission", err)
	}
	if len(subListing.Data.Children) == 0 {
		return nil, pkgerrs.NewParseError("article comments", fmt.Errorf("submission listing had no children"))
	}

	var commentListing types.Thing[types.Listing[types.CommentOrMore]]
	if err := json.Unmarshal(pair[1], &commentListing); err != nil {
		return nil, pkgerrs.NewParseError("article comments: comments", err)
	}

	sub := subListing.Data.Children[0].Data
	if err := validation.ValidateSubmission(&sub); err != nil {
		p.logger.Warn("decoded submission failed validation", slog.String("id", sub.ID), slog.String("err", err.Error()))
	}
	return &ArticleComments{Submission: &sub, Listing: commentListing.Data}, nil
}

// DecodeStickySubmission decodes the same two-element array but keeps only
// the submission, as used by the subreddit about/sticky endpoint.
func (p *Parser) DecodeStickySubmission(body []byte) (*types.Submission, error) {
	result, err := p.DecodeArticleComments(body)
	if err != nil {
		return nil, err
	}
	return result.Submission, nil
}

// FlattenComments walks a comment listing's replies recursively, guarding
// against cycles and excessive depth, and returns the comments and
// unexpanded "more" placeholders in encounter order.
func (p *Parser) FlattenComments(listing types.Listing[types.CommentOrMore]) ([]*types.ArticleComment, []*types.More, error) {
	pctx := p.getCtx()
	defer p.putCtx(pctx)

	var comments []*types.ArticleComment
	var mores []*types.More

	var walk func(children []types.CommentOrMore) error
	walk = func(children []types.CommentOrMore) error {
		pctx.depth++
		defer func() { pctx.depth-- }()
		if pctx.depth > MaxCommentDepth {
			return pkgerrs.NewParseError("flatten comments", fmt.Errorf("exceeded max comment depth %d", MaxCommentDepth))
		}

		for _, child := range children {
			switch {
			case child.Comment != nil:
				cm := child.Comment
				id := cm.Name.Full()
				if id != "" {
					if pctx.seenIDs[id] {
						p.logger.Warn("skipping duplicate comment id in tree", slog.String("id", id))
						continue
					}
					pctx.seenIDs[id] = true
				}
				if err := validation.ValidateCommentCommon(&cm.CommentCommon); err != nil {
					p.logger.Warn("decoded comment failed validation", slog.String("id", id), slog.String("err", err.Error()))
				}
				comments = append(comments, cm)
				if !cm.Replies.Empty() {
					if err := walk(cm.Replies.Listing.Children); err != nil {
						return err
					}
				}
			case child.More != nil:
				if err := validation.ValidateMore(child.More); err != nil {
					p.logger.Warn("decoded more placeholder failed validation", slog.String("err", err.Error()))
				}
				mores = append(mores, child.More)
			}
		}
		return nil
	}

	if err := walk(listing.Children); err != nil {
		return nil, nil, err
	}
	return comments, mores, nil
}

// DecodePostResponse unwraps Reddit's api_type=json envelope, surfacing a
// non-empty errors array as a RedditError and otherwise returning Data.
func DecodePostResponse[T any](body []byte, operation string) (T, error) {
	var zero T
	var resp types.PostResponse[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return zero, pkgerrs.NewParseError(operation, err)
	}
	if len(resp.JSON.Errors) > 0 {
		apiErrs := make([]pkgerrs.RedditAPIError, 0, len(resp.JSON.Errors))
		for _, e := range resp.JSON.Errors {
			apiErrs = append(apiErrs, pkgerrs.RedditAPIError{Code: e.Code, Message: e.Message, Field: e.Field})
		}
		return zero, pkgerrs.NewRedditError(apiErrs, "")
	}
	if resp.JSON.Data == nil {
		return zero, pkgerrs.NewParseError(operation, fmt.Errorf("response carried no data and no errors"))
	}
	return *resp.JSON.Data, nil
}
