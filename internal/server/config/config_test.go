package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":8080", cfg.EndpointAddr)
	require.Equal(t, 30*time.Minute, cfg.KeyPairValidityDuration)
	require.NotEmpty(t, cfg.SymmetricMasterKey)
	require.NotEmpty(t, cfg.DeterministicEncryptionKey)
	require.NotEmpty(t, cfg.DeterministicIVKey)
	require.NotEqual(t, cfg.DeterministicEncryptionKey, cfg.DeterministicIVKey,
		"the two deterministic keys must be independent even in dev defaults")
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ENDPOINT_ADDR", ":9090")
	t.Setenv("KEY_PAIR_VALIDITY_DURATION", "10m")
	t.Setenv("SYMMETRIC_MASTER_KEY", "overridden")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, ":9090", cfg.EndpointAddr)
	require.Equal(t, 10*time.Minute, cfg.KeyPairValidityDuration)
	require.Equal(t, "overridden", cfg.SymmetricMasterKey)
}

func TestParseEnv_IgnoresInvalidDuration(t *testing.T) {
	t.Setenv("KEY_PAIR_VALIDITY_DURATION", "not-a-duration")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, 30*time.Minute, cfg.KeyPairValidityDuration)
}
