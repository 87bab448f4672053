package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThingData_RedditObject(t *testing.T) {
	td := ThingData{ID: "abc", Name: FullnameFromCommentID("abc")}
	assert.Equal(t, "abc", td.GetID())
	assert.Equal(t, "t1_abc", td.GetName())
}

func TestBasicListing_Decode(t *testing.T) {
	raw := `{
		"kind": "Listing",
		"data": {
			"before": null,
			"after": "t3_next",
			"children": [
				{"kind": "t3", "data": {"id": "p1", "name": "t3_p1", "title": "hi", "subreddit": "golang"}}
			]
		}
	}`
	var listing BasicListing[Submission]
	require.NoError(t, json.Unmarshal([]byte(raw), &listing))
	require.Len(t, listing.Data.Children, 1)
	assert.Equal(t, "hi", listing.Data.Children[0].Data.Title)
	require.NotNil(t, listing.Data.After)
	assert.Equal(t, "t3_next", listing.Data.After.Full())
	assert.Nil(t, listing.Data.Before)
}

func TestMultipleThingsData_AssumeSingle(t *testing.T) {
	m := MultipleThingsData[CreatedComment]{
		Things: []Thing[CreatedComment]{{Kind: "t1", Data: CreatedComment{}}},
	}
	_, err := m.AssumeSingle()
	require.NoError(t, err)
}

func TestMultipleThingsData_AssumeSingle_Empty(t *testing.T) {
	var m MultipleThingsData[CreatedComment]
	_, err := m.AssumeSingle()
	assert.Error(t, err)
}

func TestPostResponse_Decode(t *testing.T) {
	raw := `{"json": {"errors": [], "data": {"id": "x1", "name": "t1_x1"}}}`
	var resp PostResponse[CreatedComment]
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Empty(t, resp.JSON.Errors)
	require.NotNil(t, resp.JSON.Data)
	assert.Equal(t, "x1", resp.JSON.Data.ID)
}

func TestPostResponse_Errors(t *testing.T) {
	raw := `{"json": {"errors": [["BAD_TITLE", "title too long", "title"]]}}`
	var resp PostResponse[CreatedComment]
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Len(t, resp.JSON.Errors, 1)
	assert.Equal(t, "BAD_TITLE", resp.JSON.Errors[0].Code)
	assert.Equal(t, "title", resp.JSON.Errors[0].Field)
	assert.Nil(t, resp.JSON.Data)
}
