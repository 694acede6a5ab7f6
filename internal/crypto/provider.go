package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// provider is the production [Provider]: PBKDF2 stretching and AES-256-CBC
// with PKCS#7 padding, hex-encoded throughout.
type provider struct{}

// NewProvider constructs the PBKDF2/AES-CBC primitive provider.
func NewProvider() Provider {
	return &provider{}
}

// DeriveKey implements [Provider]. SHA-256 backs 32-byte outputs, SHA-512
// backs larger ones, matching the 256/512-bit hash pair of the protocol.
func (p *provider) DeriveKey(input, salt string, iterations, keyLen int) string {
	var h func() hash.Hash
	if keyLen > 32 {
		h = sha512.New
	} else {
		h = sha256.New
	}
	return hex.EncodeToString(pbkdf2.Key([]byte(input), []byte(salt), iterations, keyLen, h))
}

// GenerateSalt implements [Provider]. It reads size bytes from the OS
// CSPRNG and returns them hex-encoded.
func (p *provider) GenerateSalt(size int) (string, error) {
	salt := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read random salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// Encrypt implements [Provider]. A random 16-byte IV is prepended to the
// ciphertext so Decrypt can split it back out: blob = iv ‖ ct.
func (p *provider) Encrypt(keyHex, plaintext string) (string, error) {
	block, err := newBlock(keyHex)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("read random iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	return hex.EncodeToString(iv) + hex.EncodeToString(ct), nil
}

// Decrypt implements [Provider]. Every malformed-input and padding failure
// collapses into [ErrDecrypt].
func (p *provider) Decrypt(keyHex, ciphertext string) (string, error) {
	block, err := newBlock(keyHex)
	if err != nil {
		return "", err
	}

	blob, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: not hex", ErrDecrypt)
	}
	if len(blob) < 2*aes.BlockSize || len(blob)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: bad length", ErrDecrypt)
	}

	iv, ct := blob[:aes.BlockSize], blob[aes.BlockSize:]
	padded := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ct)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plaintext), nil
}

func newBlock(keyHex string) (cipher.Block, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}
	return aes.NewCipher(key)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("bad padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("bad padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
