package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	s3blob "github.com/0xcoordinator/coordinator/internal/blob/s3"
	"github.com/0xcoordinator/coordinator/internal/cache/redis"
	"github.com/0xcoordinator/coordinator/internal/config"
	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/eip712"
	"github.com/0xcoordinator/coordinator/internal/engine"
	"github.com/0xcoordinator/coordinator/internal/exchangeabi"
	"github.com/0xcoordinator/coordinator/internal/feerecipient"
	"github.com/0xcoordinator/coordinator/internal/notify"
	"github.com/0xcoordinator/coordinator/internal/oracle"
	"github.com/0xcoordinator/coordinator/internal/server/ws"
	"github.com/0xcoordinator/coordinator/internal/store/postgres"

	"github.com/ethereum/go-ethereum/common"
)

// Dependencies bundles every domain-level dependency the coordinator needs to
// operate. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	Repo        domain.OrderRepository
	LockManager domain.LockManager
	RateLimiter domain.RateLimiter
	SignalBus   domain.SignalBus
	Archiver    domain.Archiver
	Engine      *engine.Engine
	Hub         *ws.Hub
	Notifier    *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	repo := postgres.NewRepository(pgClient.Pool())

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	lockManager := redis.NewLockManager(redisClient)
	rateLimiter := redis.NewRateLimiter(redisClient)
	signalBus := redis.NewSignalBus(redisClient)

	// --- S3 blob storage + archiver ---
	var archiver domain.Archiver
	if cfg.Archive.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		writer := s3blob.NewWriter(s3Client)
		archiver = s3blob.NewArchiver(writer, repo)
	}

	// --- Per-chain wiring: classifier, oracle, fee-recipient registry ---
	chains := make(map[string]*engine.ChainConfig, len(cfg.Chains))
	for chainIDStr, chainCfg := range cfg.Chains {
		chainID, ok := new(big.Int).SetString(chainIDStr, 10)
		if !ok {
			cleanup()
			return nil, nil, fmt.Errorf("wire: chain id %q is not a valid integer", chainIDStr)
		}

		exchangeAddr := common.HexToAddress(chainCfg.ExchangeAddress)
		proxyAddr := common.HexToAddress(chainCfg.ERC20ProxyAddress)
		coordinatorAddr := common.HexToAddress(chainCfg.CoordinatorContractAddress)

		classifier, err := exchangeabi.NewClassifier(exchangeabi.ExchangeABIJSON, exchangeAddr, chainID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: chain %s classifier: %w", chainIDStr, err)
		}

		chainOracle, err := oracle.NewEthClientOracle(ctx, chainCfg.RPCURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: chain %s oracle: %w", chainIDStr, err)
		}
		closers = append(closers, chainOracle.Close)

		approvalDomain := eip712.Domain{
			Name:              "0x Protocol Coordinator",
			Version:           "1.0.0",
			ChainID:           chainID,
			VerifyingContract: coordinatorAddr,
		}
		transactionDomain := eip712.Domain{
			Name:              "0x Protocol",
			Version:           "3.0.0",
			ChainID:           chainID,
			VerifyingContract: exchangeAddr,
		}

		registry := feerecipient.NewRegistry(approvalDomain)
		for _, fr := range chainCfg.FeeRecipients {
			key, err := feerecipient.LoadKey(feerecipient.KeyConfig{
				RawPrivateKey:    fr.PrivateKey,
				EncryptedKeyPath: fr.EncryptedKey,
				KeyPassword:      fr.KeyPassword,
			})
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: chain %s fee recipient %s: %w", chainIDStr, fr.Address, err)
			}
			addr, err := registry.AddKey(key)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: chain %s fee recipient %s: %w", chainIDStr, fr.Address, err)
			}
			if !common.IsHexAddress(fr.Address) || common.HexToAddress(fr.Address) != addr {
				logger.Warn("configured fee recipient address does not match derived signing key address",
					slog.String("chain", chainIDStr),
					slog.String("configured", fr.Address),
					slog.String("derived", addr.Hex()),
				)
			}
		}

		chains[chainIDStr] = &engine.ChainConfig{
			ChainID:           chainID,
			ExchangeAddress:   exchangeAddr,
			ZRXTokenAddress:   proxyAddr,
			AssetProxyAddress: proxyAddr,
			Classifier:        classifier,
			Oracle:            chainOracle,
			FeeRecipients:     registry,
			ApprovalDomain:    approvalDomain,
			TransactionDomain: transactionDomain,
		}
	}

	hub := ws.NewHub(signalBus, logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewNotifier(senders, cfg.Notify.Events, logger)

	selectiveDelay := time.Duration(cfg.Server.SelectiveDelayMs) * time.Millisecond
	expirationDuration := time.Duration(cfg.Server.ExpirationDurationSeconds) * time.Second

	eng := engine.New(chains, repo, lockManager, hub, notifier, selectiveDelay, expirationDuration, logger)

	deps := &Dependencies{
		Repo:        repo,
		LockManager: lockManager,
		RateLimiter: rateLimiter,
		SignalBus:   signalBus,
		Archiver:    archiver,
		Engine:      eng,
		Hub:         hub,
		Notifier:    notifier,
	}

	return deps, cleanup, nil
}
