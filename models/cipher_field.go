package models

import (
	"encoding/json"
	"fmt"
)

// CipherField is a single named value inside a cipher. Built-in fields
// carry [FieldDefault]; user-defined fields carry [FieldText] or
// [FieldHidden].
type CipherField struct {
	// Type defines the semantic type of the field.
	Type FieldType `json:"typ"`

	// Value contains the plaintext value of the field.
	Value string `json:"val"`
}

// UnmarshalJSON decodes a field object strictly: only the "typ" and "val"
// keys are accepted, and the type tag must be a known [FieldType].
func (f *CipherField) UnmarshalJSON(raw []byte) error {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return fmt.Errorf("cipher field is not an object: %w", err)
	}

	var out CipherField
	for key, value := range object {
		switch key {
		case "typ":
			if err := json.Unmarshal(value, &out.Type); err != nil {
				return fmt.Errorf("decode field type: %w", err)
			}
			if !out.Type.Valid() {
				return fmt.Errorf("unknown field type %d", out.Type)
			}
		case "val":
			if err := json.Unmarshal(value, &out.Value); err != nil {
				return fmt.Errorf("decode field value: %w", err)
			}
		default:
			return fmt.Errorf("unexpected key %q in cipher field", key)
		}
	}

	*f = out
	return nil
}
