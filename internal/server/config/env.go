package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, seeding the
// environment from an optional .env file first. A missing .env file is
// not an error; explicit environment variables win over file values.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, name string) {
		if v, ok := os.LookupEnv(name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString(&config.EndpointAddr, "ENDPOINT_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY_DURATION")
	setDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY_DURATION")
	setDuration(&config.KeyPairValidityDuration, "KEY_PAIR_VALIDITY_DURATION")
	setString(&config.SymmetricMasterKey, "SYMMETRIC_MASTER_KEY")
	setString(&config.DeterministicEncryptionKey, "DETERMINISTIC_ENCRYPTION_KEY")
	setString(&config.DeterministicIVKey, "DETERMINISTIC_IV_KEY")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
