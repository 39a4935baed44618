package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,        default=8000"`
	Env      string `env:"CURRENT_ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL,   default=info"`

	// ProductionName is the CURRENT_ENV value that selects production mode.
	ProductionName string `env:"PRODUCTION, default=production"`

	JWT   JWTConfig
	Store StoreConfig
	Mongo MongoConfig
	PG    PostgresConfig
	Redis RedisConfig
	Hash  HashConfig
}

type JWTConfig struct {
	ProductionSecret  string `env:"JWT_SECRET_PRODUCTION"`
	DevelopmentSecret string `env:"JWT_SECRET_DEVELOPMENT"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_DB_URI"`
	Database string `env:"MONGO_DB, default=account_service"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL"`
}

// RedisConfig enables the account cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,          default=0"`
	CacheTTL time.Duration `env:"ACCOUNT_CACHE_TTL, default=30s"`
}

type HashConfig struct {
	Cost    int `env:"BCRYPT_COST,  default=10"`
	Workers int `env:"HASH_WORKERS, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	return &cfg, nil
}

// IsProduction reports whether CURRENT_ENV names the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == c.ProductionName
}

// TokenSecret returns the signing secret for the current environment.
func (c *Config) TokenSecret() string {
	if c.IsProduction() {
		return c.JWT.ProductionSecret
	}
	return c.JWT.DevelopmentSecret
}

// CacheEnabled reports whether the redis account cache should be used.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

// Validate checks everything startup depends on. The service must not start
// without a signing secret for the selected environment.
func (c *Config) Validate() error {
	var errs []error

	if c.TokenSecret() == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET_PRODUCTION is required in production"))
		} else {
			errs = append(errs, errors.New("JWT_SECRET_DEVELOPMENT is required outside production"))
		}
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_DB_URI is required when STORE_DRIVER=mongo"))
		}
	case DriverPostgres:
		if c.PG.DSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Redis.CacheTTL < 0 {
		errs = append(errs, errors.New("ACCOUNT_CACHE_TTL must not be negative"))
	}
	if c.Hash.Cost < bcrypt.MinCost || c.Hash.Cost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Hash.Workers < 0 {
		errs = append(errs, errors.New("HASH_WORKERS must not be negative"))
	}

	return errors.Join(errs...)
}
