// @title          Account Service API
// @version        1.0
// @description    Developer account signup, signin and profile management.
// @BasePath       /
// @securityDefinitions.apikey CookieAuth
// @in             cookie
// @name           token
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devmatch/account-service/internal/api"
	"github.com/devmatch/account-service/internal/api/handler"
	"github.com/devmatch/account-service/internal/core/ports"
	"github.com/devmatch/account-service/internal/core/service"
	"github.com/devmatch/account-service/internal/core/validation"
	mongostore "github.com/devmatch/account-service/internal/infrastructure/db/mongo"
	pgstore "github.com/devmatch/account-service/internal/infrastructure/db/postgres"
	redisstore "github.com/devmatch/account-service/internal/infrastructure/db/redis"
	"github.com/devmatch/account-service/internal/infrastructure/queue"
	"github.com/devmatch/account-service/internal/infrastructure/security"
	"github.com/devmatch/account-service/internal/pkg/config"
	"github.com/devmatch/account-service/pkg/logger"
)

const (
	serviceName     = "account-service"
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// the singleton logger needs the config, so report on a bare one
		bare := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bare.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Env:     cfg.Env,
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	checks := map[string]handler.Check{}

	repo, closeStore, err := openStore(ctx, cfg, checks)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open account store")
	}
	defer closeStore()

	var cache ports.AccountCache
	if cfg.CacheEnabled() {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  connectTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		cache = redisstore.NewAccountCache(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("account cache enabled")
	}

	tokens, err := security.NewTokenService(cfg.TokenSecret())
	if err != nil {
		log.Fatal().Err(err).Msg("init token service")
	}

	// the hash pool outlives the signal context so in-flight signups can drain
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewPool(cfg.Hash.Workers, log)
	pool.Start(poolCtx)
	hasher := security.NewBcryptHasher(cfg.Hash.Cost, pool)

	opts := []service.AccountServiceOption{}
	if cache != nil {
		opts = append(opts, service.WithAccountCache(cache))
	}
	accounts := service.NewAccountService(repo, hasher, tokens, validation.New(), log, opts...)
	resolver := service.NewAccountResolver(repo, cache, cfg.Redis.CacheTTL, log)

	e := api.NewRouter(api.Deps{
		Accounts:     accounts,
		Tokens:       tokens,
		Resolver:     resolver,
		Checks:       checks,
		SecureCookie: cfg.IsProduction(),
		Log:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("account service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

// openStore connects the configured account store and registers its
// readiness check. The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.Check) (ports.AccountRepository, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.PG.DSN, Timeout: connectTimeout})
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		checks["postgres"] = db.PingContext
		return pgstore.NewAccountRepository(db), closeSQL(db), nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
			Timeout:  connectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewAccountRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return repo, disconnectMongo(client), nil
	}
}

func closeSQL(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func disconnectMongo(client *mongo.Client) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}
