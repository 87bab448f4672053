package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalStrict decodes body into out and rejects trailing data after the
// JSON value, which otherwise silently discards a concatenated or malformed
// response body.
func UnmarshalStrict(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("internal: unexpected trailing data after JSON value")
	}
	return nil
}
