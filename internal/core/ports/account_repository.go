package ports

import (
	"context"
	"time"

	"github.com/devmatch/account-service/internal/core/domain"
)

// FindOptions controls read visibility. The zero value hides soft-deleted accounts.
type FindOptions struct {
	IncludeDeleted bool
}

// AccountRepository defines persistence operations for accounts.
// Insert and UpdateByID return a *domain.DuplicateKeyError when a uniqueness
// constraint on email or contact number is violated.
type AccountRepository interface {
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string, opts FindOptions) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string, opts FindOptions) (*domain.Account, error)
	// List returns accounts ordered by creation time, newest first.
	List(ctx context.Context, opts FindOptions) ([]*domain.Account, error)
	// UpdateByID applies patch to a live account and returns the updated record.
	// DELETED accounts never match, so a deleted account cannot be revived.
	UpdateByID(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error)
}

// AccountCache is a short-lived lookup cache for live accounts.
// After Invalidate, Set for the same id must not take effect until any read
// that started before the invalidation has finished.
type AccountCache interface {
	Get(ctx context.Context, id string) (*domain.Account, bool, error)
	Set(ctx context.Context, account *domain.Account, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}
