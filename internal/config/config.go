// Package config defines the top-level configuration for the coordinator
// server and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by COORDINATOR_* environment
// variables.
type Config struct {
	Server   ServerConfig           `toml:"server"`
	Postgres PostgresConfig         `toml:"postgres"`
	Redis    RedisConfig            `toml:"redis"`
	S3       S3Config               `toml:"s3"`
	Notify   NotifyConfig           `toml:"notify"`
	Archive  ArchiveConfig          `toml:"archive"`
	Chains   map[string]ChainConfig `toml:"chains"`
	LogLevel string                 `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port                             int      `toml:"port"`
	CORSOrigins                      []string `toml:"cors_origins"`
	SelectiveDelayMs                 int      `toml:"selective_delay_ms"`
	ExpirationDurationSeconds        int      `toml:"expiration_duration_seconds"`
	SoftCancelRateLimit              int      `toml:"soft_cancel_rate_limit"`
	SoftCancelRateLimitWindowSeconds int      `toml:"soft_cancel_rate_limit_window_seconds"`
}

// PostgresConfig holds PostgreSQL connection parameters for the soft-cancel,
// fill-ledger, seen-transaction, and fill-approval tables.
type PostgresConfig struct {
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

// RedisConfig holds Redis connection parameters, used for the distributed
// lock manager, rate limiter, and cross-replica signal bus.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for archiving
// expired seen-transaction rows.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds notification channel credentials and the event types
// forwarded to them: the engine's config_error alerts (unconfigured chain,
// failed fee-recipient signing) and the archive cron's archive_failed alerts.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// ArchiveConfig holds seen-transaction archival parameters.
type ArchiveConfig struct {
	Enabled        bool     `toml:"enabled"`
	RetentionDays  int      `toml:"retention_days"`
	Cron           string   `toml:"cron"`
}

// FeeRecipientConfig pairs a fee-recipient address with the encrypted
// private key the coordinator signs approvals with on its behalf.
type FeeRecipientConfig struct {
	Address        string `toml:"address"`
	PrivateKey     string `toml:"private_key"`
	EncryptedKey   string `toml:"encrypted_key_path"`
	KeyPassword    string `toml:"key_password"`
}

// ChainConfig holds per-chain-id settings: the Exchange and ERC20Proxy
// contract addresses, the RPC endpoint used for balance/allowance reads, and
// the fee recipients this coordinator signs approvals for on that chain.
type ChainConfig struct {
	RPCURL                   string               `toml:"rpc_url"`
	ExchangeAddress          string               `toml:"exchange_address"`
	ERC20ProxyAddress        string               `toml:"erc20_proxy_address"`
	CoordinatorContractAddress string             `toml:"coordinator_contract_address"`
	FeeRecipients            []FeeRecipientConfig `toml:"fee_recipients"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:                             8080,
			CORSOrigins:                      []string{"http://localhost:3000"},
			SelectiveDelayMs:                 1000,
			ExpirationDurationSeconds:        90,
			SoftCancelRateLimit:              20,
			SoftCancelRateLimitWindowSeconds: 60,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
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
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "coordinator-archive",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Notify: NotifyConfig{
			Events: []string{"config_error", "repository_error", "oracle_error", "archive_failed"},
		},
		Archive: ArchiveConfig{
			Enabled:       true,
			RetentionDays: 90,
			Cron:          "0 3 * * *",
		},
		Chains:   map[string]ChainConfig{},
		LogLevel: "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.SelectiveDelayMs < 0 {
		errs = append(errs, "server: selective_delay_ms must be >= 0")
	}
	if c.Server.ExpirationDurationSeconds <= 0 {
		errs = append(errs, "server: expiration_duration_seconds must be > 0")
	}
	if c.Server.SoftCancelRateLimit <= 0 {
		errs = append(errs, "server: soft_cancel_rate_limit must be > 0")
	}
	if c.Server.SoftCancelRateLimitWindowSeconds <= 0 {
		errs = append(errs, "server: soft_cancel_rate_limit_window_seconds must be > 0")
	}

	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.S3.Endpoint == "" {
		errs = append(errs, "s3: endpoint must not be empty")
	}
	if c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	if len(c.Chains) == 0 {
		errs = append(errs, "chains: at least one chain must be configured")
	}
	for cid, chain := range c.Chains {
		if chain.RPCURL == "" {
			errs = append(errs, fmt.Sprintf("chains[%s]: rpc_url must not be empty", cid))
		}
		if chain.ExchangeAddress == "" {
			errs = append(errs, fmt.Sprintf("chains[%s]: exchange_address must not be empty", cid))
		}
		if chain.CoordinatorContractAddress == "" {
			errs = append(errs, fmt.Sprintf("chains[%s]: coordinator_contract_address must not be empty", cid))
		}
		if len(chain.FeeRecipients) == 0 {
			errs = append(errs, fmt.Sprintf("chains[%s]: at least one fee recipient must be configured", cid))
		}
		for _, fr := range chain.FeeRecipients {
			if fr.Address == "" {
				errs = append(errs, fmt.Sprintf("chains[%s]: fee recipient address must not be empty", cid))
			}
			if fr.PrivateKey == "" && fr.EncryptedKey == "" {
				errs = append(errs, fmt.Sprintf("chains[%s]: fee recipient %s: either private_key or encrypted_key_path must be set", cid, fr.Address))
			}
			if fr.EncryptedKey != "" && fr.KeyPassword == "" {
				errs = append(errs, fmt.Sprintf("chains[%s]: fee recipient %s: key_password is required when encrypted_key_path is set", cid, fr.Address))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
