package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dpavlenko/regvault/internal/flagx"
	"github.com/dpavlenko/regvault/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. It uses
// timex.Duration for interval fields, which allows parsing both string
// values such as "30m" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	KeyPairValidityDuration      timex.Duration `json:"key_pair_validity_duration"`
	SymmetricMasterKey           string         `json:"symmetric_master_key"`
	DeterministicEncryptionKey   string         `json:"deterministic_encryption_key"`
	DeterministicIVKey           string         `json:"deterministic_iv_key"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file referenced by the
// -c/-config flags into the provided Config. If no flag is given, nothing
// is loaded. An unreadable or invalid file panics: a process started with
// a broken config file should not come up.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	config.KeyPairValidityDuration = time.Duration(c.KeyPairValidityDuration.Duration)
	config.SymmetricMasterKey = c.SymmetricMasterKey
	config.DeterministicEncryptionKey = c.DeterministicEncryptionKey
	config.DeterministicIVKey = c.DeterministicIVKey
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
