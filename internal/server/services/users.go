package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/cryptox"
	"github.com/dpavlenko/regvault/internal/dbx"
	"github.com/dpavlenko/regvault/internal/server/auth"
	sc "github.com/dpavlenko/regvault/internal/server/config"
	"github.com/dpavlenko/regvault/internal/server/models"
	"github.com/dpavlenko/regvault/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService manages account registration and login. Passwords are
// stored under the AEAD cipher and verified with a constant-time
// comparison after decryption.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	cipher                       *cryptox.AEADCipher
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.AEADCipher, cfg *sc.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		cipher:                       cipher,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account. The password arrives in plaintext here:
// the HTTP layer has already run the payload through DecryptRequest.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	encrypted, err := s.cipher.EncryptString(password)
	if err != nil {
		return nil, fmt.Errorf("error protecting password: %w", err)
	}

	user := &models.User{
		Email:             email,
		EncryptedPassword: encrypted,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) checkPassword(stored string, candidate string) bool {
	password, err := s.cipher.DecryptString(stored)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(candidate)) == 1
}

func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.checkPassword(user.EncryptedPassword, password) {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, s.db, user.ID)
}

// RefreshToken rotates a refresh token: the old token is deleted and a
// new pair issued inside one transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		tokenPair, err = s.generateTokenPair(ctx, tx, token.UserID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
