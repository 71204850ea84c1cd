package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/cryptox"
	"github.com/dpavlenko/regvault/internal/logging"
	sc "github.com/dpavlenko/regvault/internal/server/config"
	"github.com/dpavlenko/regvault/internal/server/models"
	"github.com/dpavlenko/regvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const rsaKeyBits = 2048

// Field describes one string field of a request payload: its name, a
// pointer into the owning struct, and whether the value arrives
// RSA-encrypted.
type Field struct {
	Name      string
	Encrypted bool
	Value     *string
}

// Payload is implemented by request types whose sensitive fields arrive
// encrypted under a one-time key pair. CryptoFields returns descriptors
// pointing into the receiver, so the same method serves both reading the
// source object and writing the decrypted copy. This replaces per-field
// runtime reflection with an explicit, compile-time-checked list.
type Payload interface {
	CryptoFields() []Field
}

// PublicKeyResponse is what a client gets back from key-pair generation.
// The private key stays inside the service.
type PublicKeyResponse struct {
	KeyPairID string `json:"key_pair_id"`
	PublicKey string `json:"public_key"`
}

// KeyPairService issues ephemeral RSA key pairs and performs
// exactly-once, field-selective decryption of inbound payloads.
type KeyPairService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.AEADCipher
	validity    time.Duration
	logger      logging.Logger
}

func NewKeyPairService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.AEADCipher,
	cfg *sc.Config, logger logging.Logger) *KeyPairService {
	return &KeyPairService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		validity:    cfg.KeyPairValidityDuration,
		logger:      logger,
	}
}

// GenerateNewKeyPair creates a fresh 2048-bit RSA key pair, persists it
// with a limited validity window, and returns the identifier and public
// key. The private key is envelope-encrypted with the symmetric master
// key before it touches the store. On persistence failure the generated
// material is discarded, not retried.
func (s *KeyPairService) GenerateNewKeyPair(ctx context.Context) (*PublicKeyResponse, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	sealed, err := s.cipher.Encrypt(privDER)
	common.WipeByteArray(privDER)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	kp := &models.KeyPair{
		ID:         uuid.NewString(),
		PublicKey:  base64.StdEncoding.EncodeToString(pubDER),
		PrivateKey: base64.StdEncoding.EncodeToString(sealed),
		Active:     true,
		ExpiresAt:  time.Now().Add(s.validity),
	}

	repo := s.repomanager.KeyPairs(s.db)
	if err := repo.Add(ctx, kp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	s.logger.Info(ctx, "issued key pair", "key_pair_id", kp.ID, "expires_at", kp.ExpiresAt)

	return &PublicKeyResponse{KeyPairID: kp.ID, PublicKey: kp.PublicKey}, nil
}

// privateKey unseals and parses the stored private key.
func (s *KeyPairService) privateKey(kp *models.KeyPair) (*rsa.PrivateKey, error) {
	sealed, err := base64.StdEncoding.DecodeString(kp.PrivateKey)
	if err != nil {
		return nil, err
	}

	der, err := s.cipher.Decrypt(sealed)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(der)

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("stored key is %T, not RSA", key)
	}

	return rsaKey, nil
}

// DecryptRequest consumes the key pair identified by keyPairID and
// returns a copy of req with every encrypted field replaced by its
// plaintext.
//
// The pair is claimed (deactivated, used-at set) with a conditional
// update BEFORE any decryption happens, so two concurrent calls for the
// same id cannot both succeed: the loser gets ErrKeyAlreadyUsed. A
// malformed payload therefore burns its key pair, which is the safe
// direction for a one-time key.
//
// Unmarked fields are copied verbatim. A marked empty string stays an
// empty string with no decryption attempted. Any single field failure
// aborts the whole operation with a FieldDecryptError naming the field.
func DecryptRequest[T any, PT interface {
	*T
	Payload
}](ctx context.Context, s *KeyPairService, keyPairID string, req PT) (PT, error) {

	repo := s.repomanager.KeyPairs(s.db)

	kp, err := repo.GetByID(ctx, keyPairID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	// The store filters expired pairs but returns consumed ones, so a
	// resubmitted key pair is reported as used rather than missing.
	if kp.UsedAt != nil || !kp.Active {
		return nil, ErrKeyAlreadyUsed
	}

	if err := repo.Claim(ctx, keyPairID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrKeyAlreadyUsed
		}
		return nil, err
	}

	priv, err := s.privateKey(kp)
	if err != nil {
		return nil, &FieldDecryptError{Field: "", Err: err}
	}

	dst := PT(new(T))
	*dst = *req

	for _, f := range dst.CryptoFields() {
		if !f.Encrypted || *f.Value == "" {
			continue
		}

		ciphertext, err := base64.StdEncoding.DecodeString(*f.Value)
		if err != nil {
			return nil, &FieldDecryptError{Field: f.Name, Err: err}
		}

		plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
		if err != nil {
			return nil, &FieldDecryptError{Field: f.Name, Err: err}
		}

		*f.Value = string(plaintext)
	}

	s.logger.Info(ctx, "key pair consumed", "key_pair_id", keyPairID)

	return dst, nil
}
