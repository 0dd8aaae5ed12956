package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor is the opaque pagination state we encode/decode.
// Offset is the number of rows already returned.
type Cursor struct {
	Offset int `json:"offset"`
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil || c.Offset < 0 {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	return c, nil
}

// Page is a normalised limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps limit to [1, MaxLimit] (0 or less means DefaultLimit)
// and floors offset at 0.
func Normalize(limit, offset int) Page {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return Page{Limit: limit, Offset: max(offset, 0)}
}

// Next returns the token for the page after p, or "" when the page came
// back short and there is nothing more to read.
func (p Page) Next(returned int) string {
	if returned < p.Limit {
		return ""
	}
	tok, err := Encode(Cursor{Offset: p.Offset + returned})
	if err != nil {
		return ""
	}
	return tok
}
