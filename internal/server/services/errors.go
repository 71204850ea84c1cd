package services

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyGeneration marks RSA generation or key-pair persistence
	// failures.
	ErrKeyGeneration = errors.New("key pair generation failed")

	// ErrKeyNotFound covers a key pair that is missing, expired or never
	// existed. The store lookup does not distinguish these cases.
	ErrKeyNotFound = errors.New("key pair not found")

	// ErrKeyAlreadyUsed marks a key pair that was already consumed.
	ErrKeyAlreadyUsed = errors.New("key pair already used")
)

// FieldDecryptError reports a per-field decryption failure inside
// DecryptRequest. The whole operation aborts; partial results are never
// returned.
type FieldDecryptError struct {
	Field string
	Err   error
}

func (e *FieldDecryptError) Error() string {
	return fmt.Sprintf("decryption failed for field %q: %v", e.Field, e.Err)
}

func (e *FieldDecryptError) Unwrap() error {
	return e.Err
}
