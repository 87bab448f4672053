package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentOrMore_Comment(t *testing.T) {
	raw := `{"kind":"t1","data":{"id":"abc","name":"t1_abc","body":"hi","replies":""}}`
	var c CommentOrMore
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.NotNil(t, c.Comment)
	assert.Nil(t, c.More)
	assert.Equal(t, "hi", c.Comment.Body)
	assert.True(t, c.Comment.Replies.Empty())
}

func TestCommentOrMore_More(t *testing.T) {
	raw := `{"kind":"more","data":{"id":"x","name":"t1_x","parent_id":"t3_y","count":3,"depth":1,"children":["a","b"]}}`
	var c CommentOrMore
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.NotNil(t, c.More)
	assert.Nil(t, c.Comment)
	assert.Equal(t, []string{"a", "b"}, c.More.Children)
}

func TestCommentOrMore_UnrecognizedKind(t *testing.T) {
	var c CommentOrMore
	err := json.Unmarshal([]byte(`{"kind":"t3","data":{}}`), &c)
	assert.Error(t, err)
}

func TestArticleReplies_EmptyString(t *testing.T) {
	var r ArticleReplies
	require.NoError(t, json.Unmarshal([]byte(`""`), &r))
	assert.True(t, r.Empty())
}

func TestArticleReplies_Listing(t *testing.T) {
	raw := `{"kind":"Listing","data":{"children":[{"kind":"t1","data":{"id":"a","name":"t1_a","body":"x","replies":""}}]}}`
	var r ArticleReplies
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	require.False(t, r.Empty())
	require.Len(t, r.Listing.Children, 1)
	assert.Equal(t, "x", r.Listing.Children[0].Comment.Body)
}

func TestCommentCommon_ScoreTriple(t *testing.T) {
	raw := `{"id":"a","name":"t1_a","body":"x","ups":12,"downs":3,"score":9.0,"replies":""}`
	var c ArticleComment
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, 12, c.Ups)
	assert.Equal(t, 3, c.Downs)
	assert.Equal(t, 9.0, c.Score)
}

func TestArticleComment_UnescapesBody(t *testing.T) {
	raw := `{"id":"a","name":"t1_a","body":"AT&amp;T","replies":""}`
	var c ArticleComment
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "AT&T", c.Body)
}

func TestUserReport_Tuple(t *testing.T) {
	var r UserReport
	require.NoError(t, json.Unmarshal([]byte(`["spam",3,true,false]`), &r))
	assert.Equal(t, "spam", r.Rule)
	assert.Equal(t, 3, r.Count)
	assert.True(t, r.Unknown1)
	assert.False(t, r.Unknown2)
}

func TestModeratorReport_Tuple(t *testing.T) {
	var r ModeratorReport
	require.NoError(t, json.Unmarshal([]byte(`["rule1","explanation"]`), &r))
	assert.Equal(t, "rule1", r.Rule)
	assert.Equal(t, "explanation", r.Reason)
}

func TestSavedItem_Submission(t *testing.T) {
	raw := `{"kind":"t3","data":{"id":"p1","name":"t3_p1","title":"hello","subreddit":"golang"}}`
	var s SavedItem
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.NotNil(t, s.Submission)
	assert.Nil(t, s.Comment)
	assert.Equal(t, "hello", s.Submission.Title)
}

func TestSavedItem_Comment(t *testing.T) {
	raw := `{"kind":"t1","data":{"id":"c1","name":"t1_c1","body":"a reply"}}`
	var s SavedItem
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.NotNil(t, s.Comment)
	assert.Nil(t, s.Submission)
	assert.Equal(t, "a reply", s.Comment.Body)
}
