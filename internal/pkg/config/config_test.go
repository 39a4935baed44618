package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, DriverMongo, cfg.Store.Driver)
	require.Equal(t, "account_service", cfg.Mongo.Database)
	require.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	require.Equal(t, 10, cfg.Hash.Cost)
	require.False(t, cfg.IsProduction())
	require.False(t, cfg.CacheEnabled())
}

func TestTokenSecret_SelectsByEnvironment(t *testing.T) {
	env := map[string]string{
		"JWT_SECRET_PRODUCTION":  "prod-secret",
		"JWT_SECRET_DEVELOPMENT": "dev-secret",
	}

	cfg, err := load(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)
	require.Equal(t, "dev-secret", cfg.TokenSecret())

	env["CURRENT_ENV"] = "live"
	env["PRODUCTION"] = "live"
	cfg, err = load(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "prod-secret", cfg.TokenSecret())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name: "mongo ok",
			env:  map[string]string{"JWT_SECRET_DEVELOPMENT": "s", "MONGO_DB_URI": "mongodb://localhost:27017"},
		},
		{
			name: "postgres ok",
			env:  map[string]string{"JWT_SECRET_DEVELOPMENT": "s", "STORE_DRIVER": "Postgres", "DATABASE_URL": "postgres://localhost/accounts"},
		},
		{
			name:    "missing selected secret",
			env:     map[string]string{"JWT_SECRET_PRODUCTION": "p", "MONGO_DB_URI": "mongodb://x"},
			wantErr: "JWT_SECRET_DEVELOPMENT is required",
		},
		{
			name:    "production without its secret",
			env:     map[string]string{"CURRENT_ENV": "production", "JWT_SECRET_DEVELOPMENT": "d", "MONGO_DB_URI": "mongodb://x"},
			wantErr: "JWT_SECRET_PRODUCTION is required",
		},
		{
			name:    "postgres without dsn",
			env:     map[string]string{"JWT_SECRET_DEVELOPMENT": "s", "STORE_DRIVER": "postgres"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "bcrypt cost too low",
			env:     map[string]string{"JWT_SECRET_DEVELOPMENT": "s", "MONGO_DB_URI": "mongodb://x", "BCRYPT_COST": "3"},
			wantErr: "BCRYPT_COST must be between 4 and 31",
		},
		{
			name:    "bcrypt cost too high",
			env:     map[string]string{"JWT_SECRET_DEVELOPMENT": "s", "MONGO_DB_URI": "mongodb://x", "BCRYPT_COST": "32"},
			wantErr: "BCRYPT_COST must be between 4 and 31",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"JWT_SECRET_DEVELOPMENT": "s", "STORE_DRIVER": "sqlite"},
			wantErr: `unknown STORE_DRIVER "sqlite"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			require.NoError(t, err)

			err = cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_BadDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"ACCOUNT_CACHE_TTL": "soon"}))
	require.Error(t, err)
}
