package models

import (
	"encoding/json"
	"fmt"
)

// CipherData is the structured content of a vault entry. On the client it
// exists in plaintext; on the wire and on the server it is an opaque
// AES-CBC ciphertext produced from its canonical JSON encoding.
type CipherData struct {
	// Type defines how the entry is interpreted (login, note, ...).
	Type CipherType `json:"type"`

	// Name is the display label of the entry.
	Name string `json:"name"`

	// Favorite marks the entry as pinned in UIs.
	Favorite bool `json:"favorite"`

	// Note is an optional free-form note.
	Note string `json:"note,omitempty"`

	// Fields maps field names to their values. Names are unique by
	// construction of the map; insertion order carries no meaning.
	Fields map[string]CipherField `json:"fields"`
}

// MarshalJSON encodes the data with a non-nil fields object, matching the
// wire format where "fields" is always present.
func (d CipherData) MarshalJSON() ([]byte, error) {
	type alias CipherData
	out := alias(d)
	if out.Fields == nil {
		out.Fields = map[string]CipherField{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes cipher data strictly. Every key must be one of
// type/name/favorite/note/fields and the type tag must be a known
// [CipherType]; anything else is an error. A missing "fields" key yields
// an empty, non-nil map.
func (d *CipherData) UnmarshalJSON(raw []byte) error {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return fmt.Errorf("cipher data is not an object: %w", err)
	}

	out := CipherData{Fields: map[string]CipherField{}}
	for key, value := range object {
		switch key {
		case "type":
			if err := json.Unmarshal(value, &out.Type); err != nil {
				return fmt.Errorf("decode cipher type: %w", err)
			}
			if !out.Type.Valid() {
				return fmt.Errorf("unknown cipher type %d", out.Type)
			}
		case "name":
			if err := json.Unmarshal(value, &out.Name); err != nil {
				return fmt.Errorf("decode cipher name: %w", err)
			}
		case "favorite":
			if err := json.Unmarshal(value, &out.Favorite); err != nil {
				return fmt.Errorf("decode cipher favorite flag: %w", err)
			}
		case "note":
			if err := json.Unmarshal(value, &out.Note); err != nil {
				return fmt.Errorf("decode cipher note: %w", err)
			}
		case "fields":
			if err := json.Unmarshal(value, &out.Fields); err != nil {
				return fmt.Errorf("decode cipher fields: %w", err)
			}
			if out.Fields == nil {
				out.Fields = map[string]CipherField{}
			}
		default:
			return fmt.Errorf("unexpected key %q in cipher data", key)
		}
	}

	*d = out
	return nil
}
