// Package cryptox implements the two symmetric primitives used to protect
// sensitive fields: a randomized AEAD cipher (ChaCha20-Poly1305) for
// general confidentiality, and a deterministic AES-CBC+HMAC cipher for
// values that must stay comparable by exact ciphertext match.
//
// Both ciphers validate their key material once at construction; a key
// that is not base64 or does not decode to exactly 32 bytes is a
// configuration error and the process should not start.
package cryptox
