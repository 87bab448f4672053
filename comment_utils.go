package graw

import (
	"github.com/jamesprial/graw-reddit/internal"
	"github.com/jamesprial/graw-reddit/pkg/types"
)

// CommentTree provides depth-first traversal helpers over a decoded comment
// tree: Flatten, Filter, Find, and lookup by id or author.
type CommentTree interface {
	Flatten() []*types.ArticleComment
	Filter(func(*types.ArticleComment) bool) []*types.ArticleComment
	Find(func(*types.ArticleComment) bool) *types.ArticleComment
	GetByID(string) *types.ArticleComment
	GetByAuthor(string) []*types.ArticleComment
	GetTopLevel() []*types.ArticleComment
	GetDepth() int
	Count() int
	Walk(func(*types.ArticleComment))
}

// NewCommentTree wraps a slice of top-level tree comments (as decoded
// straight off the wire, before the back-reference wrapping in comment.go)
// with the traversal helpers above.
func NewCommentTree(comments []*types.ArticleComment) CommentTree {
	return internal.NewCommentTree(comments)
}
