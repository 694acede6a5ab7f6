package models

// Cipher is one vault entry together with its server-side envelope
// metadata. The server assigns ID, Created, and Updated; the client owns
// Data and Dir.
type Cipher struct {
	// ID is the server-assigned opaque identifier.
	ID string `json:"id"`

	// Dir is the grouping/folder identifier the entry belongs to.
	Dir string `json:"dir"`

	// Data is the structured content. Plaintext on the client,
	// ciphertext everywhere else.
	Data CipherData `json:"data"`

	// Created is the server-assigned creation time (unix seconds).
	Created int64 `json:"created,omitempty"`

	// Updated is the server-assigned last modification time (unix seconds).
	Updated int64 `json:"updated,omitempty"`
}

// EncryptedCipher is the wire form of a cipher envelope: identical to
// [Cipher] except that Data is an opaque ciphertext string. It is what the
// server stores, what travels over HTTP, and what the local cache holds.
type EncryptedCipher struct {
	ID      string `json:"id"`
	Dir     string `json:"dir"`
	Data    string `json:"data"`
	Created int64  `json:"created,omitempty"`
	Updated int64  `json:"updated,omitempty"`
}
