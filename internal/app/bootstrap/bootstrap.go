package bootstrap

import (
	"context"
	"log/slog"
	"time"

	catalogservice "threadmart/contexts/commerce-core/catalog-service"
	catalogmongo "threadmart/contexts/commerce-core/catalog-service/adapters/mongo"
	orderservice "threadmart/contexts/commerce-core/order-service"
	ordercatalog "threadmart/contexts/commerce-core/order-service/adapters/catalog"
	orderevents "threadmart/contexts/commerce-core/order-service/adapters/events"
	ordermongo "threadmart/contexts/commerce-core/order-service/adapters/mongo"
	orderworkers "threadmart/contexts/commerce-core/order-service/application/workers"
	paymentservice "threadmart/contexts/commerce-core/payment-service"
	paymentmemory "threadmart/contexts/commerce-core/payment-service/adapters/memory"
	paymentorder "threadmart/contexts/commerce-core/payment-service/adapters/order"
	paymentstripe "threadmart/contexts/commerce-core/payment-service/adapters/stripe"
	paymentports "threadmart/contexts/commerce-core/payment-service/ports"
	accountservice "threadmart/contexts/identity-access/account-service"
	accountmongo "threadmart/contexts/identity-access/account-service/adapters/mongo"
	"threadmart/internal/platform/config"
	"threadmart/internal/platform/db"
	"threadmart/internal/platform/httpserver"
	"threadmart/internal/platform/messaging"
	"threadmart/internal/shared/token"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	mongo  *db.Mongo
	logger *slog.Logger
}

type WorkerApp struct {
	mongo        *db.Mongo
	outboxRelay  orderworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	store, err := db.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	accounts, catalog, orders, err := buildModules(store, tokens, logger)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	var provider paymentports.Provider
	if cfg.PaymentBaseURL != "" {
		provider = paymentstripe.Provider{
			BaseURL:    cfg.PaymentBaseURL,
			APIKey:     cfg.PaymentAPIKey,
			SuccessURL: cfg.PaymentSuccessURL,
			CancelURL:  cfg.PaymentCancelURL,
		}
	} else {
		provider = paymentmemory.NewProvider()
	}
	payments := paymentservice.NewModule(paymentservice.Dependencies{
		Orders:   paymentorder.Gateway{Orders: orders.Service},
		Provider: provider,
		Logger:   logger,
	})

	server := httpserver.New(
		accounts,
		catalog,
		orders,
		payments,
		&tokens,
		cfg.CookieName,
		cfg.TokenTTL,
		logger,
		":"+cfg.HTTPPort,
	)
	return &APIApp{server: server, mongo: store, logger: logger}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	return a.mongo.Close(context.Background())
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	store, err := db.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}

	orderRepo := ordermongo.NewRepository(store.Client, store.Database, logger)
	bus := messaging.NewBus(logger)

	relay := orderworkers.OutboxRelay{
		Outbox: orderRepo,
		Publisher: orderevents.Publisher{
			Bus:    bus,
			Source: cfg.ServiceName,
			Logger: logger,
		},
		Clock:     ordermongo.SystemClock{},
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	}
	return &WorkerApp{
		mongo:        store,
		outboxRelay:  relay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("outbox relay started",
		"event", "outbox_relay_started",
		"module", "internal/app/bootstrap",
		"layer", "worker",
		"poll_interval", interval.String(),
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				w.logger.Error("outbox relay pass failed",
					"event", "outbox_relay_pass_failed",
					"module", "internal/app/bootstrap",
					"layer", "worker",
					"error", err.Error(),
				)
			}
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.mongo.Close(context.Background())
}

func buildModules(store *db.Mongo, tokens token.Codec, logger *slog.Logger) (accountservice.Module, catalogservice.Module, orderservice.Module, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	accountRepo := accountmongo.NewRepository(store.Database, logger)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		return accountservice.Module{}, catalogservice.Module{}, orderservice.Module{}, err
	}
	accounts := accountservice.NewModule(accountservice.Dependencies{
		Repository:  accountRepo,
		Clock:       accountmongo.SystemClock{},
		IDGenerator: accountmongo.UUIDGenerator{},
		Tokens:      tokens,
		Logger:      logger,
	})

	catalogRepo := catalogmongo.NewRepository(store.Database, logger)
	catalog := catalogservice.NewModule(catalogservice.Dependencies{
		Repository:  catalogRepo,
		Clock:       catalogmongo.SystemClock{},
		IDGenerator: catalogmongo.UUIDGenerator{},
		Logger:      logger,
	})

	orderRepo := ordermongo.NewRepository(store.Client, store.Database, logger)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		return accountservice.Module{}, catalogservice.Module{}, orderservice.Module{}, err
	}
	orders := orderservice.NewModule(orderservice.Dependencies{
		Repository:     orderRepo,
		Catalog:        ordercatalog.Gateway{Catalog: catalog.Service},
		Idempotency:    orderRepo,
		Clock:          ordermongo.SystemClock{},
		IDGenerator:    ordermongo.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	return accounts, catalog, orders, nil
}
