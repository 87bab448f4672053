package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdited_NotEdited(t *testing.T) {
	var e Edited
	require.NoError(t, json.Unmarshal([]byte(`false`), &e))
	assert.False(t, e.IsEdited())

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, "false", string(b))
}

func TestEdited_Timestamp(t *testing.T) {
	var e Edited
	require.NoError(t, json.Unmarshal([]byte(`1700000000.0`), &e))
	assert.True(t, e.IsEdited())
	assert.Equal(t, 1700000000.0, e.Timestamp())
}

func TestEdited_RejectsJSONTrue(t *testing.T) {
	var e Edited
	err := json.Unmarshal([]byte(`true`), &e)
	assert.Error(t, err)
}

func TestEdited_Null(t *testing.T) {
	var e Edited
	require.NoError(t, json.Unmarshal([]byte(`null`), &e))
	assert.False(t, e.IsEdited())
}

func TestDistinguished_RoundTrip(t *testing.T) {
	cases := map[Distinguished]string{
		DistinguishedNone:      "null",
		DistinguishedModerator: `"moderator"`,
		DistinguishedAdmin:     `"admin"`,
		DistinguishedSpecial:   `"special"`,
	}
	for d, want := range cases {
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, want, string(b))

		var decoded Distinguished
		require.NoError(t, json.Unmarshal(b, &decoded))
		assert.Equal(t, d, decoded)
	}
}

func TestDistinguished_UnrecognizedValue(t *testing.T) {
	var d Distinguished
	err := json.Unmarshal([]byte(`"bogus"`), &d)
	assert.Error(t, err)
}
