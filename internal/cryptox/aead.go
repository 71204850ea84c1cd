package cryptox

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dpavlenko/regvault/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	aeadNonceSize = chacha20poly1305.NonceSize // 12
	aeadTagSize   = chacha20poly1305.Overhead  // 16
)

// AEADCipher encrypts byte or string payloads with ChaCha20-Poly1305
// under a single long-lived 256-bit key, using a fresh random nonce per
// call. The wire format is nonce || tag || ciphertext.
//
// A cipher instance holds no per-call state and is safe for concurrent
// use.
type AEADCipher struct {
	aead cipher.AEAD
}

// NewAEADCipher builds an AEADCipher from a base64-encoded 256-bit key.
// An empty, non-base64 or wrongly sized key returns an error wrapping
// ErrInvalidKey; callers treat this as a fatal startup condition.
func NewAEADCipher(base64Key string) (*AEADCipher, error) {
	key, err := decodeKey(base64Key, "symmetric master key")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &AEADCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns the nonce||tag||ciphertext
// envelope. Encrypting the same plaintext twice yields different output
// because the nonce is random.
func (c *AEADCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, aeadNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce generation: %v", ErrEncrypt, err)
	}

	// Seal appends the tag after the ciphertext; the envelope carries it
	// between nonce and ciphertext instead.
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	ct, tag := sealed[:len(sealed)-aeadTagSize], sealed[len(sealed)-aeadTagSize:]

	out := make([]byte, 0, aeadNonceSize+aeadTagSize+len(ct))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ct...)
	return out, nil
}

// EncryptString encrypts a UTF-8 string and returns the envelope encoded
// as standard base64.
func (c *AEADCipher) EncryptString(plaintext string) (string, error) {
	out, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt parses a nonce||tag||ciphertext envelope and returns the
// plaintext. Any tampering or a wrong key fails with ErrDecrypt.
func (c *AEADCipher) Decrypt(envelope []byte) ([]byte, error) {
	if len(envelope) < aeadNonceSize+aeadTagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	nonce := envelope[:aeadNonceSize]
	tag := envelope[aeadNonceSize : aeadNonceSize+aeadTagSize]
	ct := envelope[aeadNonceSize+aeadTagSize:]

	sealed := make([]byte, 0, len(ct)+aeadTagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return plaintext, nil
}

// DecryptString decrypts a base64-encoded envelope into a UTF-8 string.
func (c *AEADCipher) DecryptString(envelope string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecrypt, err)
	}

	plaintext, err := c.Decrypt(raw)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
