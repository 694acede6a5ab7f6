package models

// CipherType defines the semantic type of a vault entry.
// The value determines how the decrypted CipherData payload
// must be interpreted by the caller.
type CipherType int

const (
	// Login represents authentication credentials such as
	// username, password, URL, and optional TOTP secret.
	// This is the only type currently supported end-to-end.
	Login CipherType = 1

	// SecureNote represents free-form secret text.
	SecureNote CipherType = 2

	// Card represents payment card information.
	Card CipherType = 3

	// Identity represents personal identity records.
	Identity CipherType = 4
)

// Valid reports whether t is one of the known cipher types.
func (t CipherType) Valid() bool {
	return t >= Login && t <= Identity
}

// FieldType defines the semantic type of a single cipher field.
type FieldType int

const (
	// FieldDefault marks built-in fields ("user", "pass", "totp",
	// "url", "note"). The wire format does not enforce a name↔type
	// binding; any name may carry any type.
	FieldDefault FieldType = -1

	// FieldText marks a user-defined plain text field.
	FieldText FieldType = 0

	// FieldHidden marks a user-defined field whose value is masked in UIs.
	FieldHidden FieldType = 1
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	return t >= FieldDefault && t <= FieldHidden
}
