package server

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawFields maps field names to their unparsed text. JSON strings are taken
// verbatim; numbers keep their literal text; null is treated as blank.
type RawFields map[string]string

func (f *RawFields) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(RawFields, len(raw))
	for name, v := range raw {
		v = bytes.TrimSpace(v)
		switch {
		case bytes.Equal(v, []byte("null")):
			out[name] = ""
		case len(v) > 0 && v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			out[name] = s
		case len(v) > 0 && (v[0] == '{' || v[0] == '['):
			return fmt.Errorf("field %s: expected a string or number", name)
		default:
			out[name] = string(v)
		}
	}
	*f = out
	return nil
}
