package ports

import (
	"context"
	"time"
)

// PasswordHasher hashes and verifies passwords. Verify returns false (not an
// error) on mismatch and domain.ErrCorruptCredential on a malformed hash.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, encoded string) (bool, error)
}

// TokenClaims is the identity carried by a session token.
type TokenClaims struct {
	AccountID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

type TokenVerifier interface {
	Verify(token string) (TokenClaims, error)
}
