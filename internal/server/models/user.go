package models

import "time"

type User struct {
	ID    string
	Email string
	// EncryptedPassword is the login password under the AEAD cipher
	// (nonce||tag||ciphertext, base64).
	EncryptedPassword string
	CreatedAt         time.Time
}
