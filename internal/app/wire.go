package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	s3blob "gatewaybot/internal/blob/s3"
	"gatewaybot/internal/bot"
	"gatewaybot/internal/cache/redis"
	"gatewaybot/internal/config"
	"gatewaybot/internal/domain"
	"gatewaybot/internal/executor"
	"gatewaybot/internal/notify"
	"gatewaybot/internal/platform/gateway"
	"gatewaybot/internal/platform/jupiter"
	"gatewaybot/internal/platform/solana"
	"gatewaybot/internal/scanner"
	"gatewaybot/internal/server"
	"gatewaybot/internal/server/handler"
	"gatewaybot/internal/server/ws"
	"gatewaybot/internal/store/postgres"
	"gatewaybot/internal/wallet"
)

// Dependencies bundles every wired component the application runs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	TransactionStore domain.TransactionStore
	OpportunityStore domain.OpportunityStore
	SignalBus        domain.SignalBus
	Notifier         *notify.Notifier
	Stats            *domain.Stats

	Bot      *bot.Service
	Hub      *ws.Hub
	Server   *server.Server
	Archiver *s3blob.Archiver
}

// Wire constructs all concrete implementations from the configuration. The
// returned cleanup releases connections in reverse acquisition order.
//
// A missing or placeholder signing key is not a wiring error: the server
// still comes up read-only and bot start reports the problem instead.
func Wire(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.PoolMaxConns,
		MinConns: cfg.Database.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	transactionStore := postgres.NewTransactionStore(pool)
	opportunityStore := postgres.NewOpportunityStore(pool)
	deps.TransactionStore = transactionStore
	deps.OpportunityStore = opportunityStore

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
	deps.SignalBus = redis.NewSignalBus(redisClient)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, log)

	// --- Wallet and chain client ---
	var chain *solana.Client
	key, err := wallet.LoadKey(wallet.KeyConfig{
		RawPrivateKey:    cfg.Wallet.PrivateKey,
		EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
		KeyPassword:      cfg.Wallet.KeyPassword,
	})
	switch {
	case err == nil:
		chain, err = solana.NewClient(cfg.Solana.RPCEndpoint, key)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: solana: %w", err)
		}
	case errors.Is(err, domain.ErrMissingSigningKey):
		log.Warn("no signing key configured, trading disabled")
	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: wallet: %w", err)
	}

	// --- Platform clients ---
	jup := jupiter.NewClient(cfg.Jupiter.APIURL, cfg.Jupiter.SlippageBps)
	rpcs := append([]string{cfg.Solana.RPCEndpoint}, cfg.Solana.ExtraRPCs...)
	relay := gateway.NewClient(cfg.Gateway.APIURL, cfg.Gateway.APIKey, cfg.Network, rpcs)

	// --- Trading pipeline ---
	deps.Stats = &domain.Stats{}

	scan := scanner.New(jup, opportunityStore,
		cfg.Trading.BaseMint, cfg.Trading.CandidateMints, cfg.Trading.InputLamports, log)

	execCfg := executor.Config{
		Swaps:        jup,
		Relay:        relay,
		Transactions: transactionStore,
		Stats:        deps.Stats,
		Bus:          deps.SignalBus,
		Notifier:     deps.Notifier,
		Network:      cfg.Network,
		Logger:       log,
	}
	botCfg := bot.Config{
		Scanner:  scan,
		Stats:    deps.Stats,
		Notifier: deps.Notifier,
		Delays: bot.Delays{
			ScanInterval:  cfg.Trading.ScanInterval.Duration,
			TradeDelay:    cfg.Trading.TradeDelay.Duration,
			RecoveryDelay: cfg.Trading.RecoveryDelay.Duration,
		},
		MinProfitPercent: cfg.Trading.MinProfitPercent,
		Logger:           log,
	}
	if chain != nil {
		execCfg.Chain = chain
		execCfg.WalletPubKey = chain.PublicKey().String()
		botCfg.Chain = chain
	}
	botCfg.Executor = executor.New(execCfg)
	deps.Bot = bot.New(ctx, botCfg)

	// --- Control surface ---
	deps.Hub = ws.NewHub(deps.SignalBus, log)
	handlers := server.Handlers{
		Health:        handler.NewHealthHandler(cfg.Network, deps.Bot),
		Stats:         handler.NewStatsHandler(transactionStore, deps.Bot, cfg.Network, log),
		Transactions:  handler.NewTransactionHandler(transactionStore, log),
		Opportunities: handler.NewOpportunityHandler(opportunityStore, log),
		Bot:           handler.NewBotHandler(deps.Bot, log),
	}
	deps.Server = server.NewServer(server.Config{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
		APIKey:      cfg.Server.APIKey,
	}, handlers, deps.Hub, log)

	// --- Cold storage (optional) ---
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
		deps.Archiver = s3blob.NewArchiver(s3blob.NewWriter(s3Client), transactionStore, opportunityStore)
	}

	return deps, cleanup, nil
}
