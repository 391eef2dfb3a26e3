package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-gateway/internal/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	account, err := cfg.Account("bingx_primary")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDry, account.Mode)
	assert.Equal(t, "bingx", account.Exchange)

	ids, ok := cfg.Profile("default")
	require.True(t, ok)
	assert.Equal(t, []string{"bingx_primary"}, ids)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"accounts": [
			{"account_id": "paper", "exchange": "bingx", "mode": "demo",
			 "api_key_env": "PAPER_KEY", "secret_key_env": "PAPER_SECRET"},
			{"account_id": "real", "exchange": "BingX", "mode": "LIVE",
			 "api_key_env": "REAL_KEY", "secret_key_env": "REAL_SECRET"}
		],
		"routing_profiles": {
			"default": ["paper"],
			"aggressive": ["paper", "real"]
		},
		"symbols": [{"name": "btcusdt", "precision": 3}]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	paper, err := cfg.Account("paper")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDemo, paper.Mode)

	real, err := cfg.Account("real")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLive, real.Mode) // mode is case-insensitive
	assert.Equal(t, "bingx", real.Exchange)

	ids, ok := cfg.Profile("aggressive")
	require.True(t, ok)
	assert.Equal(t, []string{"paper", "real"}, ids)

	assert.Equal(t, 3, cfg.Precision("BTCUSDT")) // symbol names uppercased
	assert.Equal(t, 8, cfg.Precision("ETHUSDT")) // default precision
}

func TestLoadConfigAcceptsLegacyDryRunMode(t *testing.T) {
	path := writeConfigFile(t, `{
		"accounts": [{"account_id": "a", "exchange": "bingx", "mode": "dry_run"}],
		"routing_profiles": {"default": ["a"]}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	account, err := cfg.Account("a")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDry, account.Mode)
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	path := writeConfigFile(t, `{
		"accounts": [{"account_id": "a", "exchange": "bingx", "mode": "paper"}],
		"routing_profiles": {"default": ["a"]}
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported account mode")
}

func TestLoadConfigRejectsDanglingProfileAccount(t *testing.T) {
	path := writeConfigFile(t, `{
		"accounts": [{"account_id": "a", "exchange": "bingx", "mode": "dry"}],
		"routing_profiles": {"default": ["a"], "other": ["missing"]}
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

func TestLoadConfigRequiresDefaultProfile(t *testing.T) {
	path := writeConfigFile(t, `{
		"accounts": [{"account_id": "a", "exchange": "bingx", "mode": "dry"}],
		"routing_profiles": {"main": ["a"]}
	}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsEmptyProfile(t *testing.T) {
	path := writeConfigFile(t, `{
		"accounts": [{"account_id": "a", "exchange": "bingx", "mode": "dry"}],
		"routing_profiles": {"default": []}
	}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestFromEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("GATEWAY_CONFIG_PATH", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	_, ok := cfg.Profile("default")
	assert.True(t, ok)
}
