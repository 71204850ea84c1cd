package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/dpavlenko/regvault/internal/common"
)

const (
	detIVSize  = aes.BlockSize // 16
	detTagSize = sha256.Size   // 32
)

// DeterministicCipher encrypts values that must remain searchable by
// exact ciphertext match: the IV is derived from the plaintext itself
// (HMAC-SHA256 under a dedicated key, truncated to the block size), so
// encrypting the same value twice yields byte-identical output. The cost
// is that equality of plaintexts is visible in the ciphertext.
//
// The wire format is iv || tag || ciphertext, where the tag is
// HMAC-SHA256 over iv||ciphertext under the encryption key.
type DeterministicCipher struct {
	encKey []byte
	ivKey  []byte
}

// NewDeterministicCipher builds a DeterministicCipher from two
// independent base64-encoded 256-bit keys. Validation failures wrap
// ErrInvalidKey and name the offending key.
func NewDeterministicCipher(encryptionKey, ivGenerationKey string) (*DeterministicCipher, error) {
	encKey, err := decodeKey(encryptionKey, "deterministic encryption key")
	if err != nil {
		return nil, err
	}

	ivKey, err := decodeKey(ivGenerationKey, "IV generation key")
	if err != nil {
		common.WipeByteArray(encKey)
		return nil, err
	}

	return &DeterministicCipher{encKey: encKey, ivKey: ivKey}, nil
}

// Close wipes the key material. Safe to call multiple times; the cipher
// must not be used afterwards.
func (c *DeterministicCipher) Close() {
	common.WipeByteArray(c.encKey)
	common.WipeByteArray(c.ivKey)
}

func (c *DeterministicCipher) deriveIV(plaintext []byte) []byte {
	mac := hmac.New(sha256.New, c.ivKey)
	mac.Write(plaintext)
	return mac.Sum(nil)[:detIVSize]
}

func (c *DeterministicCipher) computeTag(iv, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, c.encKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// Encrypt encrypts plaintext with AES-256-CBC (PKCS#7 padding) under a
// plaintext-derived IV and returns the iv||tag||ciphertext envelope.
// Empty plaintext is rejected: a deterministic ciphertext of the empty
// value would be a constant.
func (c *DeterministicCipher) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrEncrypt)
	}

	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	iv := c.deriveIV(plaintext)

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	tag := c.computeTag(iv, ciphertext)

	out := make([]byte, 0, detIVSize+detTagSize+len(ciphertext))
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ciphertext...)
	return out, nil
}

// EncryptString encrypts a UTF-8 string and returns the envelope encoded
// as standard base64. Equal inputs produce equal outputs.
func (c *DeterministicCipher) EncryptString(plaintext string) (string, error) {
	out, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt verifies and decrypts an iv||tag||ciphertext envelope.
//
// The tag is recomputed over iv||ciphertext and compared in constant
// time before any decryption happens; a mismatch fails with
// ErrAuthenticationFailed. The transmitted IV is trusted once
// authenticated and is not re-derived.
func (c *DeterministicCipher) Decrypt(envelope []byte) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, fmt.Errorf("%w: empty ciphertext", ErrDecrypt)
	}
	if len(envelope) <= detIVSize+detTagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	iv := envelope[:detIVSize]
	tag := envelope[detIVSize : detIVSize+detTagSize]
	ciphertext := envelope[detIVSize+detTagSize:]

	if !hmac.Equal(tag, c.computeTag(iv, ciphertext)) {
		return nil, ErrAuthenticationFailed
	}

	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not block-aligned", ErrDecrypt)
	}

	block, err := aes.NewCipher(c.encKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return plaintext, nil
}

// DecryptString decrypts a base64-encoded envelope into a UTF-8 string.
func (c *DeterministicCipher) DecryptString(envelope string) (string, error) {
	if envelope == "" {
		return "", fmt.Errorf("%w: empty ciphertext", ErrDecrypt)
	}

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

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
