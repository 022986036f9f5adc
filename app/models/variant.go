package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidVariant is returned for variant text that is not JSON.
var ErrInvalidVariant = errors.New("variant is not valid JSON")

var jsonNull = []byte("null")

// EncodeVariant turns a variant document into its column value. nil, empty
// and JSON null map to NULL. The text is compacted but otherwise kept as
// sent, so numbers are never re-encoded.
func EncodeVariant(raw json.RawMessage) (*string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, ErrInvalidVariant
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, ErrInvalidVariant
	}
	s := buf.String()
	return &s, nil
}

// DecodeVariant returns the stored document, or nil for NULL.
func DecodeVariant(col *string) json.RawMessage {
	if col == nil {
		return nil
	}
	return json.RawMessage(*col)
}

// VariantFromForm reads a multipart/form field. JSON text is taken as is;
// anything else becomes a JSON string. An empty value is absent.
func VariantFromForm(value string) json.RawMessage {
	if value == "" {
		return nil
	}
	if json.Valid([]byte(value)) {
		return json.RawMessage(value)
	}
	quoted, _ := json.Marshal(value)
	return quoted
}

// VariantContains reports whether doc equals want (string document) or holds
// it as an element (array document).
func VariantContains(doc json.RawMessage, want string) bool {
	if len(doc) == 0 {
		return false
	}
	var s string
	if err := json.Unmarshal(doc, &s); err == nil {
		return s == want
	}
	var items []json.RawMessage
	if err := json.Unmarshal(doc, &items); err != nil {
		return false
	}
	for _, item := range items {
		if err := json.Unmarshal(item, &s); err == nil && s == want {
			return true
		}
	}
	return false
}
