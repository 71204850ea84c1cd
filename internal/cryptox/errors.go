package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey marks startup-time key configuration problems:
	// empty value, invalid base64, wrong decoded size.
	ErrInvalidKey = errors.New("invalid key configuration")

	// ErrEncrypt covers encryption failures, including rejected input.
	ErrEncrypt = errors.New("encrypt error")

	// ErrDecrypt covers malformed or undecryptable ciphertext.
	ErrDecrypt = errors.New("decrypt error")

	// ErrAuthenticationFailed reports an authentication tag mismatch on
	// the deterministic cipher. It is distinct from ErrDecrypt so callers
	// can treat "tampered" differently from "malformed".
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// KeySize is the required decoded length of every cipher key.
const KeySize = 32

// decodeKey validates and decodes base64 key material. The name is used
// in error messages so a misconfigured deployment reports which key is
// broken.
func decodeKey(b64, name string) ([]byte, error) {
	if b64 == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidKey, name)
	}

	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64: %v", ErrInvalidKey, name, err)
	}

	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %s must decode to %d bytes, got %d", ErrInvalidKey, name, KeySize, len(key))
	}

	return key, nil
}
