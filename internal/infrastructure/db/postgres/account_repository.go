package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

const (
	uniqueViolation = "23505"

	emailConstraint   = "accounts_email_live_key"
	contactConstraint = "accounts_contact_number_live_key"

	accountColumns = `id, first_name, last_name, age, contact_number, email, password,
		profile_picture, cover_picture, bio, location, primary_role, years_of_experience,
		skills, social_links, collaboration_style, status_deleted, created_at, updated_at`

	liveOnly = `status_deleted <> 'DELETED'`
)

// DBTX is the subset of *sql.DB used by the repository.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type AccountRepository struct {
	db  DBTX
	now func() time.Time
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db, now: time.Now}
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *AccountRepository) Insert(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	skills, links, err := encodeCollections(a.Skills, a.SocialLinks)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), a.FirstName, a.LastName, a.Age, a.ContactNumber,
		domain.NormalizeEmail(a.Email), a.PasswordHash, a.ProfilePicture, a.CoverPicture,
		a.Bio, a.Location, a.PrimaryRole, a.YearsOfExperience, skills, links,
		a.CollaborationStyle, string(a.StatusDeleted), a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	created, err := scanAccount(row)
	if err != nil {
		if dup := duplicateKey(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string, opts ports.FindOptions) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, "id = $1", id, opts)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string, opts ports.FindOptions) (*domain.Account, error) {
	return r.findOne(ctx, "email = $1", domain.NormalizeEmail(email), opts)
}

func (r *AccountRepository) List(ctx context.Context, opts ports.FindOptions) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if !opts.IncludeDeleted {
		query += ` WHERE ` + liveOnly
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (r *AccountRepository) UpdateByID(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	sets, args, err := patchToSet(patch)
	if err != nil {
		return nil, err
	}
	args = append(args, r.now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d AND %s RETURNING %s`,
		strings.Join(sets, ", "), len(args), liveOnly, accountColumns)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	updated, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if dup := duplicateKey(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any, opts ports.FindOptions) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	if !opts.IncludeDeleted {
		query += ` AND ` + liveOnly
	}

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var (
		a      domain.Account
		status string
		skills []byte
		links  []byte
	)
	err := s.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Age, &a.ContactNumber, &a.Email,
		&a.PasswordHash, &a.ProfilePicture, &a.CoverPicture, &a.Bio, &a.Location,
		&a.PrimaryRole, &a.YearsOfExperience, &skills, &links, &a.CollaborationStyle,
		&status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &a.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &a.SocialLinks); err != nil {
			return nil, fmt.Errorf("decode social links: %w", err)
		}
		if len(a.SocialLinks) == 0 {
			a.SocialLinks = nil
		}
	}
	a.StatusDeleted = domain.Status(status)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func encodeCollections(skills []string, links map[string]string) (string, string, error) {
	if skills == nil {
		skills = []string{}
	}
	if links == nil {
		links = map[string]string{}
	}
	s, err := json.Marshal(skills)
	if err != nil {
		return "", "", fmt.Errorf("encode skills: %w", err)
	}
	l, err := json.Marshal(links)
	if err != nil {
		return "", "", fmt.Errorf("encode social links: %w", err)
	}
	return string(s), string(l), nil
}

// patchToSet returns "column = $n" fragments and their arguments for the
// fields present in p, numbered from $1.
func patchToSet(p domain.AccountPatch) ([]string, []any, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.FirstName != nil {
		add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		add("last_name", *p.LastName)
	}
	if p.Age != nil {
		add("age", *p.Age)
	}
	if p.ProfilePicture != nil {
		add("profile_picture", *p.ProfilePicture)
	}
	if p.CoverPicture != nil {
		add("cover_picture", *p.CoverPicture)
	}
	if p.Bio != nil {
		add("bio", *p.Bio)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.PrimaryRole != nil {
		add("primary_role", *p.PrimaryRole)
	}
	if p.YearsOfExperience != nil {
		add("years_of_experience", *p.YearsOfExperience)
	}
	if p.Skills != nil || p.SocialLinks != nil {
		skills, links, err := encodeCollections(p.Skills, p.SocialLinks)
		if err != nil {
			return nil, nil, err
		}
		if p.Skills != nil {
			add("skills", skills)
		}
		if p.SocialLinks != nil {
			add("social_links", links)
		}
	}
	if p.CollaborationStyle != nil {
		add("collaboration_style", *p.CollaborationStyle)
	}
	if p.Status != nil {
		add("status_deleted", string(*p.Status))
	}
	return sets, args, nil
}

func duplicateKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case emailConstraint:
		return &domain.DuplicateKeyError{Field: "email"}
	case contactConstraint:
		return &domain.DuplicateKeyError{Field: "contactNumber"}
	default:
		return &domain.DuplicateKeyError{}
	}
}
