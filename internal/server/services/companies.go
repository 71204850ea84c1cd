package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dpavlenko/regvault/internal/cryptox"
	"github.com/dpavlenko/regvault/internal/server/models"
	"github.com/dpavlenko/regvault/internal/server/repositories/repomanager"
)

// CompanyService manages business profiles. Registration numbers are
// stored under the deterministic cipher, so exact-match lookups work by
// encrypting the lookup value and comparing ciphertexts in SQL.
type CompanyService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	deterministic *cryptox.DeterministicCipher
}

func NewCompanyService(db *sql.DB, m repomanager.RepositoryManager, deterministic *cryptox.DeterministicCipher) *CompanyService {
	return &CompanyService{
		db:            db,
		repomanager:   m,
		deterministic: deterministic,
	}
}

// decryptNumber restores the plaintext registration number on a company
// loaded from the store.
func (s *CompanyService) decryptNumber(c *models.Company) error {
	number, err := s.deterministic.DecryptString(c.RegistrationNumber)
	if err != nil {
		return fmt.Errorf("error decrypting registration number: %w", err)
	}
	c.RegistrationNumber = number
	return nil
}

// Register creates a company profile owned by ownerID.
func (s *CompanyService) Register(ctx context.Context, ownerID, name, registrationNumber, legalAddress string) (*models.Company, error) {
	encrypted, err := s.deterministic.EncryptString(registrationNumber)
	if err != nil {
		return nil, fmt.Errorf("error protecting registration number: %w", err)
	}

	company := &models.Company{
		OwnerID:            ownerID,
		Name:               name,
		RegistrationNumber: encrypted,
		LegalAddress:       legalAddress,
	}

	repo := s.repomanager.Companies(s.db)

	company, err = repo.Create(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("error creating company: %w", err)
	}

	company.RegistrationNumber = registrationNumber
	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.repomanager.Companies(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decryptNumber(company); err != nil {
		return nil, err
	}
	return company, nil
}

// FindByRegistrationNumber looks a company up by its plaintext
// registration number. Determinism of the cipher makes the encrypted
// lookup value equal to the stored ciphertext for equal numbers.
func (s *CompanyService) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.Company, error) {
	encrypted, err := s.deterministic.EncryptString(registrationNumber)
	if err != nil {
		return nil, fmt.Errorf("error encrypting lookup value: %w", err)
	}

	company, err := s.repomanager.Companies(s.db).GetByRegistrationNumber(ctx, encrypted)
	if err != nil {
		return nil, err
	}

	company.RegistrationNumber = registrationNumber
	return company, nil
}

func (s *CompanyService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Company, error) {
	list, err := s.repomanager.Companies(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if err := s.decryptNumber(c); err != nil {
			return nil, err
		}
	}
	return list, nil
}
