package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "devnet", cfg.Network)
	assert.Equal(t, "https://gateway.sanctum.so", cfg.Gateway.APIURL)
	assert.Equal(t, "https://quote-api.jup.ag/v6", cfg.Jupiter.APIURL)
	assert.Equal(t, SOLMint, cfg.Trading.BaseMint)
	assert.Equal(t, []string{USDCMint, USDTMint}, cfg.Trading.CandidateMints)
	assert.Equal(t, int64(10_000_000), cfg.Trading.InputLamports)
	assert.Equal(t, 0.5, cfg.Trading.MinProfitPercent)
	assert.Equal(t, 15*time.Second, cfg.Trading.ScanInterval.Duration)
	assert.Equal(t, 3*time.Second, cfg.Trading.TradeDelay.Duration)
	assert.Equal(t, 5*time.Second, cfg.Trading.RecoveryDelay.Duration)
	assert.Equal(t, 3001, cfg.Server.Port)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "devnet", cfg.Network)
	assert.Equal(t, 3001, cfg.Server.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
network = "mainnet-beta"
log_level = "debug"

[trading]
min_profit_percent = 1.25
scan_interval = "30s"

[server]
port = 8080
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mainnet-beta", cfg.Network)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1.25, cfg.Trading.MinProfitPercent)
	assert.Equal(t, 30*time.Second, cfg.Trading.ScanInterval.Duration)
	assert.Equal(t, 8080, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, int64(10_000_000), cfg.Trading.InputLamports)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`network = "devnet"`), 0o600))

	t.Setenv("GATEWAYBOT_NETWORK", "mainnet-beta")
	t.Setenv("GATEWAYBOT_GATEWAY_API_KEY", "env-secret")
	t.Setenv("GATEWAYBOT_TRADING_INPUT_LAMPORTS", "20000000")
	t.Setenv("GATEWAYBOT_TRADING_CANDIDATE_MINTS", "mintA, mintB")
	t.Setenv("GATEWAYBOT_TRADING_SCAN_INTERVAL", "45s")
	t.Setenv("GATEWAYBOT_REDIS_TLS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mainnet-beta", cfg.Network)
	assert.Equal(t, "env-secret", cfg.Gateway.APIKey)
	assert.Equal(t, int64(20_000_000), cfg.Trading.InputLamports)
	assert.Equal(t, []string{"mintA", "mintB"}, cfg.Trading.CandidateMints)
	assert.Equal(t, 45*time.Second, cfg.Trading.ScanInterval.Duration)
	assert.True(t, cfg.Redis.TLSEnabled)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Network = "moonnet"
	cfg.Jupiter.APIURL = ""
	cfg.Trading.InputLamports = 0
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown network "moonnet"`)
	assert.ErrorContains(t, err, "jupiter: api_url must not be empty")
	assert.ErrorContains(t, err, "trading: input_lamports must be > 0")
	assert.ErrorContains(t, err, "server: port must be 1-65535")
}

func TestValidate_EncryptedKeyRequiresPassword(t *testing.T) {
	cfg := Defaults()
	cfg.Wallet.EncryptedKeyPath = "/keys/wallet.json"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "wallet: key_password is required")

	cfg.Wallet.KeyPassword = "pw"
	require.NoError(t, cfg.Validate())
}

func TestValidate_ArchiveRequiresS3(t *testing.T) {
	cfg := Defaults()
	cfg.Archive.Enabled = true
	cfg.S3.Bucket = ""
	cfg.Archive.RetentionDays = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "s3: bucket must not be empty")
	assert.ErrorContains(t, err, "archive: retention_days must be >= 1")
}

func TestRedactedConfig_MasksSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.APIKey = "gw-secret"
	cfg.Wallet.PrivateKey = "base58-secret"
	cfg.Database.Password = "db-secret"
	cfg.Server.APIKey = "srv-secret"

	red := RedactedConfig(&cfg)

	assert.NotContains(t, red.Gateway.APIKey, "gw-secret")
	assert.NotContains(t, red.Wallet.PrivateKey, "base58-secret")
	assert.NotContains(t, red.Database.Password, "db-secret")
	assert.NotContains(t, red.Server.APIKey, "srv-secret")
	// Non-secret fields survive untouched.
	assert.Equal(t, cfg.Network, red.Network)
	assert.Equal(t, cfg.Server.Port, red.Server.Port)
}
