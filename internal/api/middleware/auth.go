package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devmatch/account-service/internal/api/metrics"
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

const (
	// TokenCookie is the cookie carrying the session token.
	TokenCookie = "token"
	// AccountKey is the echo context key holding the authenticated *domain.Account.
	AccountKey = "account"

	unauthorizedMessage = "Unauthorized! Please log in to access this resource."
)

var (
	errMissingToken   = errors.New("no token cookie or bearer header")
	errMissingSubject = errors.New("token has no subject")
)

type accountCtxKey struct{}

type unauthorizedResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Auth rejects requests without a valid session token for a live account.
// The token is read from the token cookie, then from an Authorization Bearer
// header. On success the account is available through AccountFromContext.
func Auth(tokens ports.TokenVerifier, accounts ports.AccountResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return reject(c, log, "missing_token", "missing token", errMissingToken)
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				if errors.Is(err, domain.ErrExpiredToken) {
					return reject(c, log, "expired_token", "token expired", err)
				}
				return reject(c, log, "invalid_token", "invalid token", err)
			}
			if claims.AccountID == "" {
				return reject(c, log, "missing_subject", "invalid token", errMissingSubject)
			}

			account, err := accounts.Resolve(c.Request().Context(), claims.AccountID)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Error().Err(err).Str("account_id", claims.AccountID).Msg("resolve account for token")
				}
				return reject(c, log, "account_not_found", "account not found", err)
			}

			c.Set(AccountKey, account)
			c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), accountCtxKey{}, account)))
			return next(c)
		}
	}
}

// AccountFromContext returns the account attached by Auth.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	a, ok := ctx.Value(accountCtxKey{}).(*domain.Account)
	return a, ok && a != nil
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func reject(c echo.Context, log zerolog.Logger, reason, category string, cause error) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	log.Debug().Err(cause).Str("reason", reason).Str("path", c.Path()).Msg("request rejected")
	return c.JSON(http.StatusUnauthorized, unauthorizedResponse{Message: unauthorizedMessage, Error: category})
}
