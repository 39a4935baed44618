package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devmatch/account-service/internal/api/metrics"
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

type accountResolver struct {
	repo  ports.AccountRepository
	cache ports.AccountCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewAccountResolver returns the resolver used by the auth gate. cache may be
// nil; cache failures fall back to the repository.
func NewAccountResolver(repo ports.AccountRepository, cache ports.AccountCache, ttl time.Duration, log zerolog.Logger) ports.AccountResolver {
	return &accountResolver{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (r *accountResolver) Resolve(ctx context.Context, id string) (*domain.Account, error) {
	if r.cache != nil {
		account, ok, err := r.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.AccountCacheLookupsTotal.WithLabelValues("error").Inc()
			r.log.Warn().Err(err).Str("account_id", id).Msg("account cache read failed, using store")
		case ok && !account.IsDeleted():
			metrics.AccountCacheLookupsTotal.WithLabelValues("hit").Inc()
			return account, nil
		default:
			metrics.AccountCacheLookupsTotal.WithLabelValues("miss").Inc()
		}
	}

	account, err := r.repo.FindByID(ctx, id, ports.FindOptions{})
	if err != nil {
		return nil, err
	}

	if r.cache != nil && r.ttl > 0 {
		if err := r.cache.Set(ctx, account, r.ttl); err != nil {
			r.log.Warn().Err(err).Str("account_id", id).Msg("account cache write failed")
		}
	}
	return account, nil
}
