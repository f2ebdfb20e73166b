// Package app wires the configuration into a runnable server: storage
// backend selection, optional Redis cache and Kafka relay, the domain
// services, the command handler and the admin HTTP listener.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/admin"
	rediscache "github.com/MonoDevPro/HexagonalGameServer-sub000/internal/cache/redis"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/command"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/config"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/password"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/relay/kafka"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository/memory"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository/postgres"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/service"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/session"
)

// App is the assembled server.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	Bus      *event.Bus
	Registry *session.Registry
	Handler  *command.Handler
	Players  *service.PlayerService

	httpServer  *http.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
	relay       *kafka.Relay
}

// New wires the whole application from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}
	a.Bus = event.NewBus(logger)

	hasher, err := password.NewHasher(password.Params{
		Memory:      cfg.Security.PasswordHash.Memory,
		Iterations:  cfg.Security.PasswordHash.Iterations,
		Parallelism: cfg.Security.PasswordHash.Parallelism,
		SaltLength:  cfg.Security.PasswordHash.SaltLength,
		KeyLength:   cfg.Security.PasswordHash.KeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("configure password hasher: %w", err)
	}

	var accountRepo repository.AccountRepository
	var characterRepo repository.CharacterRepository
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		accountRepo = postgres.NewAccountRepository(pool)
		characterRepo = postgres.NewCharacterRepository(pool)
		logger.Info("using postgres store", zap.String("host", cfg.Database.Host))
	default:
		accountRepo = memory.NewAccountRepository()
		characterRepo = memory.NewCharacterRepository()
		logger.Info("using in-memory store")
	}

	// The registry hydrates through the cache when Redis is enabled.
	var lister repository.CharacterLister = characterRepo
	var invalidator service.CacheInvalidator
	if cfg.Redis.Enabled {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		cache := rediscache.NewCharacterCache(a.redisClient, characterRepo, logger, cfg.Redis.TTL)
		lister = cache
		invalidator = cache
		logger.Info("character list cache enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	a.Registry = session.NewRegistry(lister, logger)

	accounts := service.NewAccountService(accountRepo, hasher, a.Bus, logger)
	characters := service.NewCharacterService(characterRepo, accountRepo, invalidator, a.Bus, logger)
	a.Players = service.NewPlayerService(a.Registry, accounts, characters, a.Bus, logger)
	a.Handler = command.NewHandler(a.Registry, accounts, characters, a.Players, a.Bus, logger)

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			return nil, fmt.Errorf("connect to kafka: %w", err)
		}
		a.relay = kafka.NewRelay(producer, logger, cfg.Kafka.Topic, cfg.Kafka.Source)
		a.relay.Start(a.Bus)
	}

	adminServer := admin.NewServer(a.Registry, accounts, logger)
	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      adminServer.Router([]byte(cfg.Admin.JWTSecret)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return a, nil
}

// Run serves the admin listener until ctx is canceled, then shuts everything
// down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("admin server listening", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("admin server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("admin server shutdown failed", zap.Error(err))
	}
	if a.relay != nil {
		if err := a.relay.Stop(a.Bus); err != nil {
			a.logger.Warn("relay shutdown failed", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	a.logger.Info("shutdown complete")
	return nil
}
