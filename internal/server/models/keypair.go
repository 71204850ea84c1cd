// Package models defines server-side data models persisted in the database.
package models

import "time"

// KeyPair is an ephemeral RSA key pair issued for a single field-decryption
// operation.
//
// A key pair is usable iff Active is true, the current time is before
// ExpiresAt, and UsedAt is nil. Consumption (setting UsedAt and clearing
// Active) is irreversible and happens exactly once, enforced by a
// conditional UPDATE in the store.
type KeyPair struct {
	// ID is a random identifier handed to the client together with the
	// public key.
	ID string
	// PublicKey is the PKIX-encoded RSA public key, base64.
	PublicKey string
	// PrivateKey is the PKCS#8-encoded RSA private key, encrypted with
	// the service's symmetric master key before it is persisted. It never
	// leaves the trust boundary.
	PrivateKey string
	Active     bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
	UsedAt     *time.Time
}
