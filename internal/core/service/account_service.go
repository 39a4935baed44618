package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/devmatch/account-service/internal/api/metrics"
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

// AccountService implements signup, signin and profile management on top of
// an AccountRepository. The optional cache is only invalidated here; it is
// filled by the AccountResolver.
type AccountService struct {
	repo      ports.AccountRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	validator ports.AccountValidator
	cache     ports.AccountCache
	log       zerolog.Logger
	now       func() time.Time
}

type AccountServiceOption func(*AccountService)

// WithAccountCache sets the cache whose entries are dropped on update and delete.
func WithAccountCache(cache ports.AccountCache) AccountServiceOption {
	return func(s *AccountService) { s.cache = cache }
}

// WithNow overrides the clock used for createdAt/updatedAt.
func WithNow(now func() time.Time) AccountServiceOption {
	return func(s *AccountService) { s.now = now }
}

func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	validator ports.AccountValidator,
	log zerolog.Logger,
	opts ...AccountServiceOption,
) *AccountService {
	s := &AccountService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.AccountService = (*AccountService)(nil)

func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if err := s.validator.ValidateRegistration(in); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	account := &domain.Account{
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Age:                in.Age,
		ContactNumber:      in.ContactNumber,
		Email:              domain.NormalizeEmail(in.Email),
		PasswordHash:       hash,
		ProfilePicture:     in.ProfilePicture,
		CoverPicture:       in.CoverPicture,
		Bio:                in.Bio,
		Location:           in.Location,
		PrimaryRole:        in.PrimaryRole,
		YearsOfExperience:  in.YearsOfExperience,
		Skills:             in.Skills,
		SocialLinks:        in.SocialLinks,
		CollaborationStyle: in.CollaborationStyle,
		StatusDeleted:      domain.StatusNew,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	account.ApplyDefaults()

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Authenticate checks credentials against the live account with that email
// and issues a session token. An unknown or soft-deleted email is ErrNotFound;
// a wrong password is ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, in ports.SignInInput) (string, *domain.Account, error) {
	if err := s.validator.ValidateSignIn(in); err != nil {
		metrics.SigninsTotal.WithLabelValues("invalid").Inc()
		return "", nil, err
	}

	account, err := s.repo.FindByEmail(ctx, in.Email, ports.FindOptions{})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.SigninsTotal.WithLabelValues("not_found").Inc()
			return "", nil, err
		}
		metrics.SigninsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, in.Password, account.PasswordHash)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("stored credential could not be checked")
		return "", nil, err
	}
	if !ok {
		metrics.SigninsTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	metrics.SigninsTotal.WithLabelValues("ok").Inc()
	return token, account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id, ports.FindOptions{})
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.repo.FindByEmail(ctx, email, ports.FindOptions{})
}

// List returns every live account, newest first. An empty result is ErrNotFound.
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.repo.List(ctx, ports.FindOptions{})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrNotFound
	}
	return accounts, nil
}

// Update applies a validated profile patch. Status changes are not accepted here.
func (s *AccountService) Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	patch.Status = nil
	if err := s.validator.ValidatePatch(patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// SoftDelete marks a live account DELETED. Deleting twice reports ErrNotFound.
func (s *AccountService) SoftDelete(ctx context.Context, id string) (*domain.Account, error) {
	deleted := domain.StatusDeleted
	account, err := s.repo.UpdateByID(ctx, id, domain.AccountPatch{Status: &deleted})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	metrics.AccountsDeletedTotal.Inc()
	s.log.Info().Str("account_id", id).Msg("account soft-deleted")
	return account, nil
}

func (s *AccountService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("account cache invalidation failed")
	}
}
