package types

import "encoding/json"

// APIError is one [code, message, field] entry in a PostResponse's errors
// array.
type APIError struct {
	Code    string
	Message string
	Field   string
}

func (e *APIError) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	fields := []*string{&e.Code, &e.Message, &e.Field}
	for i, f := range fields {
		if i >= len(tuple) {
			break
		}
		if err := json.Unmarshal(tuple[i], f); err != nil {
			return err
		}
	}
	return nil
}

func (e APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{e.Code, e.Message, e.Field})
}

// PostResponseInner is the "json" key of Reddit's api_type=json envelope.
type PostResponseInner[T any] struct {
	Errors []APIError `json:"errors"`
	Data   *T         `json:"data"`
}

// PostResponse wraps every POST response made with api_type=json.
type PostResponse[T any] struct {
	JSON PostResponseInner[T] `json:"json"`
}

// LazyThingCreatedData is returned immediately after submitting a post,
// before the full Submission record is fetched.
type LazyThingCreatedData struct {
	ID   string   `json:"id"`
	Name Fullname `json:"name"`
}
