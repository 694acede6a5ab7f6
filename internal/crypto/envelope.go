package crypto

import (
	"encoding/json"
	"fmt"

	"github.com/micropass/micropass-go/models"
)

type envelopeCodec struct {
	provider Provider
}

// NewEnvelopeCodec constructs an [EnvelopeCodec] on top of the given
// primitive provider.
func NewEnvelopeCodec(provider Provider) EnvelopeCodec {
	return &envelopeCodec{provider: provider}
}

// EncryptData implements [EnvelopeCodec].
func (c *envelopeCodec) EncryptData(data models.CipherData, encryptionKey string) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode cipher data: %w", err)
	}

	ct, err := c.provider.Encrypt(encryptionKey, string(plaintext))
	if err != nil {
		return "", fmt.Errorf("encrypt cipher data: %w", err)
	}
	return ct, nil
}

// DecryptData implements [EnvelopeCodec].
func (c *envelopeCodec) DecryptData(ciphertext, encryptionKey string) (models.CipherData, error) {
	plaintext, err := c.provider.Decrypt(encryptionKey, ciphertext)
	if err != nil {
		return models.CipherData{}, err
	}

	var data models.CipherData
	if err = json.Unmarshal([]byte(plaintext), &data); err != nil {
		return models.CipherData{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// ParseCipher implements [EnvelopeCodec]. The envelope is decoded
// field-by-field: an unknown key is an error, not something to spread
// onto the record.
func (c *envelopeCodec) ParseCipher(raw []byte, encryptionKey string) (models.Cipher, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return models.Cipher{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var out models.Cipher
	for key, value := range object {
		var err error
		switch key {
		case "id":
			err = json.Unmarshal(value, &out.ID)
		case "dir":
			err = json.Unmarshal(value, &out.Dir)
		case "created":
			err = json.Unmarshal(value, &out.Created)
		case "updated":
			err = json.Unmarshal(value, &out.Updated)
		case "data":
			out.Data, err = c.parseData(value, encryptionKey)
			if err != nil {
				return models.Cipher{}, err
			}
		default:
			return models.Cipher{}, fmt.Errorf("%w: unexpected key %q", ErrDecode, key)
		}
		if err != nil {
			return models.Cipher{}, fmt.Errorf("%w: decode %q: %v", ErrDecode, key, err)
		}
	}

	if _, ok := object["data"]; !ok {
		return models.Cipher{}, fmt.Errorf("%w: missing data", ErrDecode)
	}

	return out, nil
}

func (c *envelopeCodec) parseData(value json.RawMessage, encryptionKey string) (models.CipherData, error) {
	var ct string
	isString := json.Unmarshal(value, &ct) == nil

	if encryptionKey != "" {
		if !isString {
			return models.CipherData{}, fmt.Errorf("%w: data is not a ciphertext string", ErrDecode)
		}
		return c.DecryptData(ct, encryptionKey)
	}

	if isString {
		return models.CipherData{}, fmt.Errorf("%w: encrypted data requires an encryption key", ErrDecode)
	}

	var data models.CipherData
	if err := json.Unmarshal(value, &data); err != nil {
		return models.CipherData{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// SerializeCipher implements [EnvelopeCodec].
func (c *envelopeCodec) SerializeCipher(cipher models.Cipher, encryptionKey string) ([]byte, error) {
	if encryptionKey == "" {
		raw, err := json.Marshal(cipher)
		if err != nil {
			return nil, fmt.Errorf("encode cipher: %w", err)
		}
		return raw, nil
	}

	ct, err := c.EncryptData(cipher.Data, encryptionKey)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(models.EncryptedCipher{
		ID:      cipher.ID,
		Dir:     cipher.Dir,
		Data:    ct,
		Created: cipher.Created,
		Updated: cipher.Updated,
	})
	if err != nil {
		return nil, fmt.Errorf("encode cipher envelope: %w", err)
	}
	return raw, nil
}
