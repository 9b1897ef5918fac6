package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleID is an identifier the backend may send as a JSON string or number.
// It is written back in the form it was read.
type FlexibleID struct {
	text   string
	number bool
}

// StringID returns an identifier encoded as a JSON string.
func StringID(s string) FlexibleID { return FlexibleID{text: s} }

// NumberID returns an identifier encoded as a JSON number. n must be a valid
// JSON number literal.
func NumberID(n string) FlexibleID { return FlexibleID{text: n, number: true} }

// String returns the identifier text.
func (id FlexibleID) String() string { return id.text }

// IsZero reports an absent identifier.
func (id FlexibleID) IsZero() bool { return id.text == "" }

// IsNumber reports whether the identifier is encoded as a number.
func (id FlexibleID) IsNumber() bool { return id.number }

// MarshalJSON writes numbers bare, other ids quoted and the zero id as null.
func (id FlexibleID) MarshalJSON() ([]byte, error) {
	switch {
	case id.IsZero():
		return []byte("null"), nil
	case id.number:
		return []byte(id.text), nil
	default:
		return []byte(strconv.Quote(id.text)), nil
	}
}

// UnmarshalJSON accepts "abc", 42 and null.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = FlexibleID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = NumberID(n.String())
	return nil
}
