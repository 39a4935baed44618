package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
	"github.com/devmatch/account-service/internal/core/validation"
	"github.com/devmatch/account-service/internal/infrastructure/security"
)

// stubAccountRepo is an in-memory AccountRepository enforcing the same
// uniqueness and visibility rules as the real stores.
type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int
	findErr  error

	// afterFindByID runs once FindByID has read the record.
	afterFindByID func(id string)
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (r *stubAccountRepo) Insert(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.IsDeleted() {
			continue
		}
		if existing.Email == domain.NormalizeEmail(a.Email) {
			return nil, &domain.DuplicateKeyError{Field: "email"}
		}
		if existing.ContactNumber == a.ContactNumber {
			return nil, &domain.DuplicateKeyError{Field: "contactNumber"}
		}
	}
	r.seq++
	c := cloneAccount(a)
	c.ID = fmt.Sprintf("acc-%d", r.seq)
	c.Email = domain.NormalizeEmail(a.Email)
	r.accounts[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) find(match func(*domain.Account) bool, opts ports.FindOptions) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.accounts {
		if match(a) && (opts.IncludeDeleted || !a.IsDeleted()) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string, opts ports.FindOptions) (*domain.Account, error) {
	a, err := r.find(func(a *domain.Account) bool { return a.ID == id }, opts)
	if r.afterFindByID != nil {
		r.afterFindByID(id)
	}
	return a, err
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string, opts ports.FindOptions) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(a *domain.Account) bool { return a.Email == email }, opts)
}

func (r *stubAccountRepo) List(_ context.Context, opts ports.FindOptions) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Account
	for _, a := range r.accounts {
		if opts.IncludeDeleted || !a.IsDeleted() {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubAccountRepo) UpdateByID(_ context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	patch.Apply(a)
	return cloneAccount(a), nil
}

// stubCache mirrors the redis cache: Invalidate leaves a tombstone that
// keeps later Sets for that id out.
type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Account
	tombstones  map[string]bool
	invalidated []string
	getErr      error
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Account), tombstones: make(map[string]bool)}
}

func (c *stubCache) Get(_ context.Context, id string) (*domain.Account, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	a, ok := c.entries[id]
	return cloneAccount(a), ok, nil
}

func (c *stubCache) Set(_ context.Context, a *domain.Account, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a.IsDeleted() || c.tombstones[a.ID] {
		return nil
	}
	if _, held := c.entries[a.ID]; held {
		return nil
	}
	c.entries[a.ID] = cloneAccount(a)
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.tombstones[id] = true
	c.invalidated = append(c.invalidated, id)
	return nil
}

type failingHasher struct{}

func (failingHasher) Hash(context.Context, string) (string, error) { return "x", nil }
func (failingHasher) Verify(context.Context, string, string) (bool, error) {
	return false, fmt.Errorf("%w: bad hash", domain.ErrCorruptCredential)
}

func newTestService(t *testing.T, repo ports.AccountRepository, opts ...AccountServiceOption) (*AccountService, *security.TokenService) {
	t.Helper()
	tokens, err := security.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	hasher := security.NewBcryptHasher(4, nil)
	return NewAccountService(repo, hasher, tokens, validation.New(), zerolog.Nop(), opts...), tokens
}

func registration(email, phone string) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName:         "Alice",
		LastName:          "Walker",
		Age:               29,
		ContactNumber:     phone,
		Email:             email,
		Password:          "Str0ng!Pass",
		PrimaryRole:       "Backend Engineer",
		YearsOfExperience: 6,
		Skills:            []string{"go"},
	}
}

func TestAccountService_Register_NormalisesAndHashes(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestService(t, repo)

	acc, err := svc.Register(context.Background(), registration("A@x.com", "+447700900123"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if acc.Email != "a@x.com" {
		t.Fatalf("expected normalised email, got %q", acc.Email)
	}
	if acc.PasswordHash == "" || acc.PasswordHash == "Str0ng!Pass" {
		t.Fatalf("expected password to be hashed, got %q", acc.PasswordHash)
	}
	if acc.StatusDeleted != domain.StatusNew {
		t.Fatalf("expected NEW status, got %q", acc.StatusDeleted)
	}
	if acc.Bio != domain.DefaultBio || acc.ProfilePicture != domain.DefaultProfilePicture {
		t.Fatalf("expected defaults applied: %+v", acc)
	}
	if acc.CreatedAt.IsZero() || !acc.CreatedAt.Equal(acc.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %v %v", acc.CreatedAt, acc.UpdatedAt)
	}

	got, err := svc.GetByEmail(context.Background(), "a@X.COM")
	if err != nil || got.ID != acc.ID {
		t.Fatalf("GetByEmail: %v %+v", err, got)
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc, _ := newTestService(t, newStubAccountRepo())

	in := registration("not-an-email", "+447700900123")
	in.Age = 10
	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAccountService_Register_DuplicateEmailIgnoresCase(t *testing.T) {
	svc, _ := newTestService(t, newStubAccountRepo())

	if _, err := svc.Register(context.Background(), registration("a@x.com", "+447700900123")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), registration("A@X.com", "+447700900124"))
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAccountService_Authenticate_RoundTrip(t *testing.T) {
	svc, tokens := newTestService(t, newStubAccountRepo())

	acc, err := svc.Register(context.Background(), registration("bob@x.com", "+447700900123"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, signedIn, err := svc.Authenticate(context.Background(), ports.SignInInput{Email: "BOB@x.com", Password: "Str0ng!Pass"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if signedIn.ID != acc.ID {
		t.Fatalf("signed in as %q, want %q", signedIn.ID, acc.ID)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.AccountID != acc.ID {
		t.Fatalf("token subject %q, want %q", claims.AccountID, acc.ID)
	}
}

func TestAccountService_Authenticate_Failures(t *testing.T) {
	svc, _ := newTestService(t, newStubAccountRepo())
	if _, err := svc.Register(context.Background(), registration("bob@x.com", "+447700900123")); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name string
		in   ports.SignInInput
		want error
	}{
		{"wrong password", ports.SignInInput{Email: "bob@x.com", Password: "Wr0ng!Pass"}, domain.ErrInvalidCredentials},
		{"unknown email", ports.SignInInput{Email: "nobody@x.com", Password: "Str0ng!Pass"}, domain.ErrNotFound},
		{"missing password", ports.SignInInput{Email: "bob@x.com"}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, err := svc.Authenticate(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if token != "" {
				t.Fatalf("expected no token on failure")
			}
		})
	}
}

func TestAccountService_Authenticate_CorruptHash(t *testing.T) {
	repo := newStubAccountRepo()
	tokens, _ := security.NewTokenService("test-secret")
	svc := NewAccountService(repo, failingHasher{}, tokens, validation.New(), zerolog.Nop())

	if _, err := svc.Register(context.Background(), registration("bob@x.com", "+447700900123")); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := svc.Authenticate(context.Background(), ports.SignInInput{Email: "bob@x.com", Password: "Str0ng!Pass"})
	if !errors.Is(err, domain.ErrCorruptCredential) {
		t.Fatalf("expected ErrCorruptCredential, got %v", err)
	}
}

func TestAccountService_SoftDelete_HidesAccount(t *testing.T) {
	repo := newStubAccountRepo()
	cache := newStubCache()
	svc, _ := newTestService(t, repo, WithAccountCache(cache))

	acc, err := svc.Register(context.Background(), registration("gone@x.com", "+447700900123"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	deleted, err := svc.SoftDelete(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if !deleted.IsDeleted() {
		t.Fatalf("expected DELETED status, got %q", deleted.StatusDeleted)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != acc.ID {
		t.Fatalf("expected cache invalidation, got %v", cache.invalidated)
	}

	if _, err := svc.Get(context.Background(), acc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByEmail(context.Background(), "gone@x.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByEmail after delete: expected ErrNotFound, got %v", err)
	}
	if _, _, err := svc.Authenticate(context.Background(), ports.SignInInput{Email: "gone@x.com", Password: "Str0ng!Pass"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Authenticate after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SoftDelete(context.Background(), acc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	raw, err := repo.FindByID(context.Background(), acc.ID, ports.FindOptions{IncludeDeleted: true})
	if err != nil || !raw.IsDeleted() {
		t.Fatalf("record should remain stored as DELETED: %v %+v", err, raw)
	}

	// the freed email can be registered again
	if _, err := svc.Register(context.Background(), registration("gone@x.com", "+447700900123")); err != nil {
		t.Fatalf("re-register after delete: %v", err)
	}
}

func TestAccountService_List(t *testing.T) {
	repo := newStubAccountRepo()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, repo, WithNow(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))

	if _, err := svc.List(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty list: expected ErrNotFound, got %v", err)
	}

	first, _ := svc.Register(context.Background(), registration("one@x.com", "+447700900001"))
	second, _ := svc.Register(context.Background(), registration("two@x.com", "+447700900002"))

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestAccountService_Update(t *testing.T) {
	repo := newStubAccountRepo()
	cache := newStubCache()
	svc, _ := newTestService(t, repo, WithAccountCache(cache))

	acc, err := svc.Register(context.Background(), registration("up@x.com", "+447700900123"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bio := "Writes Go for a living."
	deleted := domain.StatusDeleted
	updated, err := svc.Update(context.Background(), acc.ID, domain.AccountPatch{Bio: &bio, Status: &deleted})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Bio != bio {
		t.Fatalf("bio not applied: %q", updated.Bio)
	}
	if updated.IsDeleted() {
		t.Fatalf("status must not change through Update")
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("expected cache invalidation, got %v", cache.invalidated)
	}

	if _, err := svc.Update(context.Background(), acc.ID, domain.AccountPatch{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty patch: expected ErrValidation, got %v", err)
	}
	short := "short"
	if _, err := svc.Update(context.Background(), acc.ID, domain.AccountPatch{Bio: &short}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short bio: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "acc-missing", domain.AccountPatch{Bio: &bio}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing account: expected ErrNotFound, got %v", err)
	}
}
