// Package config defines the top-level configuration for the gateway trading
// bot and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by GATEWAYBOT_* environment
// variables.
type Config struct {
	Network  string         `toml:"network"`
	Solana   SolanaConfig   `toml:"solana"`
	Gateway  GatewayConfig  `toml:"gateway"`
	Jupiter  JupiterConfig  `toml:"jupiter"`
	Wallet   WalletConfig   `toml:"wallet"`
	Trading  TradingConfig  `toml:"trading"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Archive  ArchiveConfig  `toml:"archive"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	LogLevel string         `toml:"log_level"`
}

// SolanaConfig holds ledger RPC endpoints.
type SolanaConfig struct {
	RPCEndpoint string `toml:"rpc_endpoint"`
	// ExtraRPCs are additional endpoints handed to the relay for round-robin
	// delivery alongside the primary endpoint.
	ExtraRPCs []string `toml:"extra_rpcs"`
}

// GatewayConfig holds the transaction relay endpoint and credentials.
type GatewayConfig struct {
	APIURL string `toml:"api_url"`
	APIKey string `toml:"api_key"`
}

// JupiterConfig holds the quote aggregator endpoint.
type JupiterConfig struct {
	APIURL      string `toml:"api_url"`
	SlippageBps int    `toml:"slippage_bps"`
}

// WalletConfig holds the signing key material. Exactly one of PrivateKey
// (base58) or EncryptedKeyPath+KeyPassword must be usable at bot start.
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// TradingConfig holds the scan/execute parameters.
type TradingConfig struct {
	BaseMint       string   `toml:"base_mint"`
	CandidateMints []string `toml:"candidate_mints"`
	// InputLamports is the fixed amount quoted on every forward leg.
	InputLamports    int64    `toml:"input_lamports"`
	MinProfitPercent float64  `toml:"min_profit_percent"`
	MaxPositionSOL   float64  `toml:"max_position_sol"`
	ScanInterval     duration `toml:"scan_interval"`
	TradeDelay       duration `toml:"trade_delay"`
	RecoveryDelay    duration `toml:"recovery_delay"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for the archiver.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ArchiveConfig controls cold-storage export of old ledger rows.
type ArchiveConfig struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// ServerConfig holds HTTP server parameters. An empty APIKey disables
// request authentication.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "15s", "3s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Well-known mint addresses used for the default scan list.
const (
	SOLMint  = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// Defaults returns a Config populated with reasonable default values. Every
// field has a documented default except the signing key, whose absence is a
// fatal condition at bot start.
func Defaults() Config {
	return Config{
		Network: "devnet",
		Solana: SolanaConfig{
			RPCEndpoint: "https://api.devnet.solana.com",
		},
		Gateway: GatewayConfig{
			APIURL: "https://gateway.sanctum.so",
		},
		Jupiter: JupiterConfig{
			APIURL:      "https://quote-api.jup.ag/v6",
			SlippageBps: 50,
		},
		Trading: TradingConfig{
			BaseMint:         SOLMint,
			CandidateMints:   []string{USDCMint, USDTMint},
			InputLamports:    10_000_000, // 0.01 SOL
			MinProfitPercent: 0.5,
			MaxPositionSOL:   0.1,
			ScanInterval:     duration{15 * time.Second},
			TradeDelay:       duration{3 * time.Second},
			RecoveryDelay:    duration{5 * time.Second},
		},
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "gatewaybot",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "gatewaybot-data",
			ForcePathStyle: true,
		},
		Archive: ArchiveConfig{
			Enabled:       false,
			RetentionDays: 90,
		},
		Server: ServerConfig{
			Port:        3001,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"trade_executed", "trade_failed", "bot_started", "bot_stopped"},
		},
		LogLevel: "info",
	}
}

// validNetworks enumerates the accepted values for Config.Network.
var validNetworks = map[string]bool{
	"devnet":       true,
	"testnet":      true,
	"mainnet-beta": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found. The signing key is
// deliberately not checked here: its absence is surfaced when the bot is
// started, not at process boot, so the control surface can come up without
// one.
func (c *Config) Validate() error {
	var errs []string

	if !validNetworks[strings.ToLower(c.Network)] {
		errs = append(errs, fmt.Sprintf("unknown network %q (valid: devnet, testnet, mainnet-beta)", c.Network))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Solana.RPCEndpoint == "" {
		errs = append(errs, "solana: rpc_endpoint must not be empty")
	}
	if c.Gateway.APIURL == "" {
		errs = append(errs, "gateway: api_url must not be empty")
	}
	if c.Jupiter.APIURL == "" {
		errs = append(errs, "jupiter: api_url must not be empty")
	}
	if c.Jupiter.SlippageBps < 0 || c.Jupiter.SlippageBps > 10_000 {
		errs = append(errs, fmt.Sprintf("jupiter: slippage_bps must be 0-10000, got %d", c.Jupiter.SlippageBps))
	}

	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		errs = append(errs, "wallet: key_password is required when encrypted_key_path is set")
	}

	if c.Trading.BaseMint == "" {
		errs = append(errs, "trading: base_mint must not be empty")
	}
	if len(c.Trading.CandidateMints) == 0 {
		errs = append(errs, "trading: candidate_mints must not be empty")
	}
	if c.Trading.InputLamports <= 0 {
		errs = append(errs, "trading: input_lamports must be > 0")
	}
	if c.Trading.MinProfitPercent < 0 {
		errs = append(errs, "trading: min_profit_percent must be >= 0")
	}
	if c.Trading.MaxPositionSOL <= 0 {
		errs = append(errs, "trading: max_position_sol must be > 0")
	}
	if c.Trading.ScanInterval.Duration <= 0 {
		errs = append(errs, "trading: scan_interval must be > 0")
	}
	if c.Trading.TradeDelay.Duration <= 0 {
		errs = append(errs, "trading: trade_delay must be > 0")
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		if c.Database.Host == "" {
			errs = append(errs, "database: host must not be empty (or set database.dsn)")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database: port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.Database == "" {
			errs = append(errs, "database: database must not be empty")
		}
	}
	if c.Database.PoolMaxConns < 1 {
		errs = append(errs, "database: pool_max_conns must be >= 1")
	}
	if c.Database.PoolMinConns < 0 {
		errs = append(errs, "database: pool_min_conns must be >= 0")
	}
	if c.Database.PoolMinConns > c.Database.PoolMaxConns {
		errs = append(errs, "database: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.Archive.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when archive is enabled")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when archive is enabled")
		}
		if c.Archive.RetentionDays < 1 {
			errs = append(errs, "archive: retention_days must be >= 1")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
