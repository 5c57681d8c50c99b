// Package crypto wraps bank and account details in an opaque
// AES-GCM-sealed value. Settlement code only ever calls Reveal; it
// never inspects whether a value arrived encrypted or plain.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// EncryptedField is an opaque sealed value. The zero value is empty and
// reveals the empty string.
type EncryptedField struct {
	sealed []byte
}

// Cipher seals and opens EncryptedFields with a key derived from the
// configured secret.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a 256-bit key from secret and returns a Cipher.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is empty")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext into an EncryptedField. Empty input yields
// the zero field.
func (c *Cipher) Seal(plaintext string) (EncryptedField, error) {
	if plaintext == "" {
		return EncryptedField{}, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return EncryptedField{}, fmt.Errorf("generate nonce: %w", err)
	}
	return EncryptedField{sealed: c.aead.Seal(nonce, nonce, []byte(plaintext), nil)}, nil
}

// Reveal decrypts the field. The zero field reveals "".
func (c *Cipher) Reveal(f EncryptedField) (string, error) {
	if len(f.sealed) == 0 {
		return "", nil
	}
	ns := c.aead.NonceSize()
	if len(f.sealed) < ns {
		return "", fmt.Errorf("sealed value too short")
	}
	plain, err := c.aead.Open(nil, f.sealed[:ns], f.sealed[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plain), nil
}

// FromSealed wraps bytes already sealed by a Cipher, as read back from
// storage.
func FromSealed(b []byte) EncryptedField {
	if len(b) == 0 {
		return EncryptedField{}
	}
	return EncryptedField{sealed: b}
}

// Sealed exposes the sealed bytes for persistence.
func (f EncryptedField) Sealed() []byte {
	return f.sealed
}

// IsZero reports whether the field holds no value.
func (f EncryptedField) IsZero() bool {
	return len(f.sealed) == 0
}
