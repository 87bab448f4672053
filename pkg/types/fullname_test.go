package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullname(t *testing.T) {
	f, err := ParseFullname("t3_1e5leyy")
	require.NoError(t, err)
	assert.Equal(t, "t3", f.Kind())
	assert.Equal(t, "1e5leyy", f.ID())
	assert.Equal(t, "t3_1e5leyy", f.Full())
	assert.False(t, f.IsZero())
}

func TestParseFullname_Invalid(t *testing.T) {
	cases := []string{"", "abc", "t3abc", "t33_abc", "_abc"}
	for _, c := range cases {
		_, err := ParseFullname(c)
		assert.Errorf(t, err, "expected error for input %q", c)
		var invalid *InvalidFullnameError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestFullname_Zero(t *testing.T) {
	var f Fullname
	assert.True(t, f.IsZero())
}

func TestFullnameFromCommentID(t *testing.T) {
	f := FullnameFromCommentID("abc123")
	assert.Equal(t, "t1", f.Kind())
	assert.Equal(t, "abc123", f.ID())
}

func TestFullnameFromSubmissionLink(t *testing.T) {
	f, ok := FullnameFromSubmissionLink("https://www.reddit.com/r/golang/comments/1e5leyy/some_title/")
	require.True(t, ok)
	assert.Equal(t, "t3_1e5leyy", f.Full())
}

func TestFullnameFromSubmissionLink_NoMatch(t *testing.T) {
	_, ok := FullnameFromSubmissionLink("https://example.com/not/a/reddit/link")
	assert.False(t, ok)
}

func TestFullname_JSONRoundTrip(t *testing.T) {
	f, err := ParseFullname("t1_xyz")
	require.NoError(t, err)

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `"t1_xyz"`, string(b))

	var decoded Fullname
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, f, decoded)
}

func TestFullname_UnmarshalJSON_Invalid(t *testing.T) {
	var f Fullname
	err := json.Unmarshal([]byte(`"not-a-fullname"`), &f)
	assert.Error(t, err)
}

func TestFullname_PointerField_NullStaysNil(t *testing.T) {
	var holder struct {
		Before *Fullname `json:"before"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"before": null}`), &holder))
	assert.Nil(t, holder.Before)
}
