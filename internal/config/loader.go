package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies GATEWAYBOT_* environment variable overrides, and
// returns the final Config. A missing file is not an error -- the bot can run
// entirely from defaults plus environment. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known GATEWAYBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Network, "GATEWAYBOT_NETWORK")
	setStr(&cfg.LogLevel, "GATEWAYBOT_LOG_LEVEL")

	// ── Solana ──
	setStr(&cfg.Solana.RPCEndpoint, "GATEWAYBOT_RPC_ENDPOINT")
	setStringSlice(&cfg.Solana.ExtraRPCs, "GATEWAYBOT_EXTRA_RPCS")

	// ── Gateway ──
	setStr(&cfg.Gateway.APIURL, "GATEWAYBOT_GATEWAY_API_URL")
	setStr(&cfg.Gateway.APIKey, "GATEWAYBOT_GATEWAY_API_KEY")

	// ── Jupiter ──
	setStr(&cfg.Jupiter.APIURL, "GATEWAYBOT_JUPITER_API_URL")
	setInt(&cfg.Jupiter.SlippageBps, "GATEWAYBOT_JUPITER_SLIPPAGE_BPS")

	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "GATEWAYBOT_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.EncryptedKeyPath, "GATEWAYBOT_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "GATEWAYBOT_WALLET_KEY_PASSWORD")

	// ── Trading ──
	setStr(&cfg.Trading.BaseMint, "GATEWAYBOT_TRADING_BASE_MINT")
	setStringSlice(&cfg.Trading.CandidateMints, "GATEWAYBOT_TRADING_CANDIDATE_MINTS")
	setInt64(&cfg.Trading.InputLamports, "GATEWAYBOT_TRADING_INPUT_LAMPORTS")
	setFloat64(&cfg.Trading.MinProfitPercent, "GATEWAYBOT_MIN_PROFIT_PERCENT")
	setFloat64(&cfg.Trading.MaxPositionSOL, "GATEWAYBOT_MAX_POSITION_SOL")
	setDuration(&cfg.Trading.ScanInterval, "GATEWAYBOT_TRADING_SCAN_INTERVAL")
	setDuration(&cfg.Trading.TradeDelay, "GATEWAYBOT_TRADING_TRADE_DELAY")
	setDuration(&cfg.Trading.RecoveryDelay, "GATEWAYBOT_TRADING_RECOVERY_DELAY")

	// ── Database ──
	setStr(&cfg.Database.DSN, "GATEWAYBOT_DATABASE_DSN")
	setStr(&cfg.Database.Host, "GATEWAYBOT_DATABASE_HOST")
	setInt(&cfg.Database.Port, "GATEWAYBOT_DATABASE_PORT")
	setStr(&cfg.Database.Database, "GATEWAYBOT_DATABASE_NAME")
	setStr(&cfg.Database.User, "GATEWAYBOT_DATABASE_USER")
	setStr(&cfg.Database.Password, "GATEWAYBOT_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "GATEWAYBOT_DATABASE_SSLMODE")
	setInt(&cfg.Database.PoolMaxConns, "GATEWAYBOT_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "GATEWAYBOT_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "GATEWAYBOT_DATABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "GATEWAYBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "GATEWAYBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "GATEWAYBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "GATEWAYBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "GATEWAYBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "GATEWAYBOT_REDIS_TLS_ENABLED")

	// ── S3 / Archive ──
	setStr(&cfg.S3.Endpoint, "GATEWAYBOT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "GATEWAYBOT_S3_REGION")
	setStr(&cfg.S3.Bucket, "GATEWAYBOT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "GATEWAYBOT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "GATEWAYBOT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "GATEWAYBOT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "GATEWAYBOT_S3_FORCE_PATH_STYLE")
	setBool(&cfg.Archive.Enabled, "GATEWAYBOT_ARCHIVE_ENABLED")
	setInt(&cfg.Archive.RetentionDays, "GATEWAYBOT_ARCHIVE_RETENTION_DAYS")

	// ── Server ──
	setInt(&cfg.Server.Port, "GATEWAYBOT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "GATEWAYBOT_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "GATEWAYBOT_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "GATEWAYBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "GATEWAYBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "GATEWAYBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "GATEWAYBOT_NOTIFY_EVENTS")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
