package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/devmatch/account-service/internal/api/metrics"
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/infrastructure/queue"
)

// DefaultCost matches the work factor accounts were historically hashed with.
const DefaultCost = 10

// BcryptHasher hashes passwords with bcrypt. The salt is generated per call and
// embedded in the encoded hash. Work is scheduled on pool when one is given.
type BcryptHasher struct {
	cost int
	pool *queue.Pool
}

// NewBcryptHasher returns a hasher with the given cost. A cost outside
// bcrypt's accepted range falls back to DefaultCost.
func NewBcryptHasher(cost int, pool *queue.Pool) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost, pool: pool}
}

func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	var (
		hash []byte
		err  error
	)
	defer observe("hash", time.Now())
	if perr := h.pool.Do(ctx, func() {
		hash, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); perr != nil {
		return "", perr
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares plaintext against encoded in constant time. A mismatch is
// reported as false with a nil error.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, encoded string) (bool, error) {
	var err error
	defer observe("verify", time.Now())
	if perr := h.pool.Do(ctx, func() {
		err = bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	}); perr != nil {
		return false, perr
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrCorruptCredential, err)
	}
}

func observe(op string, start time.Time) {
	metrics.PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
