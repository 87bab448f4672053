package internal

import "github.com/jamesprial/graw-reddit/pkg/types"

// CommentTree provides depth-first traversal helpers over a decoded comment
// listing, independent of the depth/cycle guard FlattenComments applies at
// decode time.
type CommentTree struct {
	Comments []*types.ArticleComment
}

// NewCommentTree wraps an already-flattened or top-level comment slice.
func NewCommentTree(comments []*types.ArticleComment) *CommentTree {
	return &CommentTree{Comments: comments}
}

// Flatten returns every comment in the tree, depth-first.
func (ct *CommentTree) Flatten() []*types.ArticleComment {
	var result []*types.ArticleComment
	flattenRecursive(ct.Comments, &result)
	return result
}

func flattenRecursive(comments []*types.ArticleComment, result *[]*types.ArticleComment) {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		*result = append(*result, comment)
		flattenRecursive(ExtractReplies(comment), result)
	}
}

// Filter returns every comment in the tree matching filterFunc.
func (ct *CommentTree) Filter(filterFunc func(*types.ArticleComment) bool) []*types.ArticleComment {
	var result []*types.ArticleComment
	for _, comment := range ct.Flatten() {
		if filterFunc(comment) {
			result = append(result, comment)
		}
	}
	return result
}

// Find returns the first comment in the tree matching condition.
func (ct *CommentTree) Find(condition func(*types.ArticleComment) bool) *types.ArticleComment {
	return findRecursive(ct.Comments, condition)
}

func findRecursive(comments []*types.ArticleComment, condition func(*types.ArticleComment) bool) *types.ArticleComment {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		if condition(comment) {
			return comment
		}
		if found := findRecursive(ExtractReplies(comment), condition); found != nil {
			return found
		}
	}
	return nil
}

// GetByID returns the comment whose fullname id matches, or nil.
func (ct *CommentTree) GetByID(id string) *types.ArticleComment {
	return ct.Find(func(c *types.ArticleComment) bool {
		return c.ID == id
	})
}

// GetByAuthor returns every comment in the tree by the given author.
func (ct *CommentTree) GetByAuthor(author string) []*types.ArticleComment {
	return ct.Filter(func(c *types.ArticleComment) bool {
		return c.Author == author
	})
}

// GetTopLevel returns the tree's direct children.
func (ct *CommentTree) GetTopLevel() []*types.ArticleComment {
	return ct.Comments
}

// GetDepth returns the maximum reply depth present in the tree, relative to
// its own top level (not the comment's own Depth field, which is absolute
// within the submission).
func (ct *CommentTree) GetDepth() int {
	return depthRecursive(ct.Comments, 0)
}

func depthRecursive(comments []*types.ArticleComment, currentDepth int) int {
	maxDepth := currentDepth
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		if d := depthRecursive(ExtractReplies(comment), currentDepth+1); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// Count returns the total number of comments in the tree.
func (ct *CommentTree) Count() int {
	return len(ct.Flatten())
}

// Walk applies fn to every comment in the tree, depth-first.
func (ct *CommentTree) Walk(fn func(*types.ArticleComment)) {
	walkRecursive(ct.Comments, fn)
}

func walkRecursive(comments []*types.ArticleComment, fn func(*types.ArticleComment)) {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		fn(comment)
		walkRecursive(ExtractReplies(comment), fn)
	}
}

// ExtractReplies returns a comment's direct reply comments, skipping any
// unexpanded "more" placeholders.
func ExtractReplies(comment *types.ArticleComment) []*types.ArticleComment {
	if comment == nil || comment.Replies.Empty() {
		return nil
	}
	children := comment.Replies.Listing.Children
	result := make([]*types.ArticleComment, 0, len(children))
	for i := range children {
		if children[i].Comment != nil {
			result = append(result, children[i].Comment)
		}
	}
	return result
}
