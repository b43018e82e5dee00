package todoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a server-assigned item identifier. Backends emit either JSON numbers
// or strings; ID keeps the literal text and re-encodes it in the same form.
type ID struct {
	raw     string
	numeric bool
}

// NewID wraps a string identifier.
func NewID(s string) ID {
	return ID{raw: s}
}

// IntID wraps a numeric identifier.
func IntID(n int64) ID {
	return ID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the identifier as it appears in request paths.
func (id ID) String() string {
	return id.raw
}

// Equal compares identifiers by their literal text, so the number 7 and the
// string "7" name the same item.
func (id ID) Equal(other ID) bool {
	return id.raw == other.raw
}

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool {
	return id.raw == ""
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = ID{raw: n.String(), numeric: true}
	return nil
}

// Item mirrors a to-do resource as served by /todos.
type Item struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// CreateRequest is the body of POST /todos.
type CreateRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// PatchRequest is the body of PATCH /todos/:id.
type PatchRequest struct {
	Completed bool `json:"completed"`
}
