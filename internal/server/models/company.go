package models

import "time"

// Company is a registered business profile. RegistrationNumber is stored
// under the deterministic cipher so exact-match lookups can run directly
// against the encrypted column.
type Company struct {
	ID                 string
	OwnerID            string
	Name               string
	RegistrationNumber string
	LegalAddress       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
