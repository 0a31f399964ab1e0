package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/application/services"
	"stocktalk-service/internal/config"
	"stocktalk-service/internal/delivery/websocket"
	"stocktalk-service/internal/domain/repositories"
	"stocktalk-service/internal/infrastructure"
	"stocktalk-service/internal/infrastructure/db/mongodb"
	"stocktalk-service/internal/infrastructure/db/sqlstore"
	"stocktalk-service/internal/infrastructure/metrics"
	"stocktalk-service/internal/interface/rest"
	"stocktalk-service/internal/logger"
	"stocktalk-service/internal/messaging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stocktalk",
		Short:        "Stock discussion API and real-time gateway",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var envFile, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the WebSocket gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			logger.Setup(cfg.LogLevel, cfg.LogPretty)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	return cmd
}

type storage struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	tx       repositories.Transactor
	ping     func(ctx context.Context) error
	close    func(ctx context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoTransactions)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:    mongodb.NewUserRepository(store),
			posts:    mongodb.NewPostRepository(store),
			comments: mongodb.NewCommentRepository(store),
			tx:       store,
			ping:     store.Ping,
			close:    store.Disconnect,
		}, nil
	case config.DriverPostgres, config.DriverSQLite:
		dsn := cfg.PostgresDSN
		if cfg.StoreDriver == config.DriverSQLite {
			dsn = cfg.SQLitePath
		}
		store, err := sqlstore.Open(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:    sqlstore.NewUserRepository(store),
			posts:    sqlstore.NewPostRepository(store),
			comments: sqlstore.NewCommentRepository(store),
			tx:       store,
			ping:     store.Ping,
			close:    func(context.Context) error { return store.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := openStorage(connectCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	health := []rest.HealthCheck{{Name: "store", Check: store.ping}}

	var profileCache interfaces.ProfileCache
	redisService := infrastructure.NewRedisService(infrastructure.RedisOptions{
		URL:      cfg.RedisURL,
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if redisService.Enabled() {
		profileCache = redisService
		health = append(health, rest.HealthCheck{Name: "redis", Check: redisService.Ping})
	}

	loginLimiter := infrastructure.NewRateLimiter(cfg.LoginRateWindow, cfg.LoginRateLimit)
	jwtService := infrastructure.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	m := metrics.New()
	registry := websocket.NewRegistry(m)

	var publisher interfaces.EventPublisher = registry
	var bus *messaging.NatsBus
	if cfg.NatsURL != "" {
		nc, err := messaging.ConnectNats(cfg.NatsURL, "stocktalk")
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		bus = messaging.NewNatsBus(nc, cfg.NatsSubject, registry)
		if err := bus.Start(); err != nil {
			bus.Close()
			return err
		}
		publisher = bus
		health = append(health, rest.HealthCheck{Name: "nats", Check: func(context.Context) error {
			if status := bus.Status(); status != "connected" {
				return errors.New(status)
			}
			return nil
		}})
	}

	e := rest.NewServer(rest.Dependencies{
		Users:    services.NewUserService(store.users, jwtService, profileCache, loginLimiter, cfg.ProfileCacheTTL),
		Posts:    services.NewPostService(store.posts, store.comments, store.users, store.tx, publisher),
		Comments: services.NewCommentService(store.posts, store.comments, store.users, store.tx, publisher),
		Tokens:   jwtService,
		Gateway:  websocket.NewHandler(registry, publisher),
		Metrics:  m,
		Health:   health,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("🚀 Server running")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	registry.CloseAll()
	if bus != nil {
		bus.Close()
	}
	loginLimiter.Close()
	if err := redisService.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
	if err := store.close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("store close failed")
	}

	log.Info().Msg("server exited")
	return nil
}
