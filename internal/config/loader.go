package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies COORDINATOR_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known COORDINATOR_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). Per-chain fee-recipient keys are deliberately TOML-only: there
// is no stable env-var shape for a map of per-chain key lists, so operators
// inject those via the config file or a mounted secrets volume.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "COORDINATOR_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "COORDINATOR_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.SelectiveDelayMs, "COORDINATOR_SELECTIVE_DELAY_MS")
	setInt(&cfg.Server.ExpirationDurationSeconds, "COORDINATOR_EXPIRATION_DURATION_SECONDS")
	setInt(&cfg.Server.SoftCancelRateLimit, "COORDINATOR_SOFT_CANCEL_RATE_LIMIT")
	setInt(&cfg.Server.SoftCancelRateLimitWindowSeconds, "COORDINATOR_SOFT_CANCEL_RATE_LIMIT_WINDOW_SECONDS")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "COORDINATOR_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "COORDINATOR_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "COORDINATOR_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "COORDINATOR_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "COORDINATOR_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "COORDINATOR_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "COORDINATOR_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "COORDINATOR_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "COORDINATOR_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "COORDINATOR_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "COORDINATOR_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "COORDINATOR_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "COORDINATOR_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "COORDINATOR_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "COORDINATOR_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "COORDINATOR_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "COORDINATOR_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "COORDINATOR_S3_REGION")
	setStr(&cfg.S3.Bucket, "COORDINATOR_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "COORDINATOR_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "COORDINATOR_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "COORDINATOR_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "COORDINATOR_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "COORDINATOR_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "COORDINATOR_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "COORDINATOR_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "COORDINATOR_NOTIFY_EVENTS")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "COORDINATOR_ARCHIVE_ENABLED")
	setInt(&cfg.Archive.RetentionDays, "COORDINATOR_ARCHIVE_RETENTION_DAYS")
	setStr(&cfg.Archive.Cron, "COORDINATOR_ARCHIVE_CRON")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "COORDINATOR_LOG_LEVEL")
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

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
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
