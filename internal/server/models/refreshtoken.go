package models

import "time"

// RefreshToken is the opaque, server-stored half of a token pair. It is
// rotated on every refresh: the presented token is deleted and a new one
// issued in the same transaction.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
