package ports

import (
	"context"

	"github.com/devmatch/account-service/internal/core/domain"
)

// RegisterInput carries a signup request. Field rules live in the validation package.
type RegisterInput struct {
	FirstName          string            `json:"firstName"          validate:"required,min=3,max=20"`
	LastName           string            `json:"lastName"           validate:"required,min=3,max=20"`
	Age                int               `json:"age"                validate:"required,min=18,max=100"`
	ContactNumber      string            `json:"contactNumber"      validate:"required,phone"`
	Email              string            `json:"email"              validate:"required,email"`
	Password           string            `json:"password"           validate:"required,strongpassword,passwordbytes"`
	ProfilePicture     string            `json:"profilePicture"     validate:"omitempty,url"`
	CoverPicture       string            `json:"coverPicture"       validate:"omitempty,url"`
	Bio                string            `json:"bio"                validate:"omitempty,min=10,max=300"`
	Location           string            `json:"location"           validate:"omitempty,max=50"`
	PrimaryRole        string            `json:"primaryRole"        validate:"required,min=3,max=30"`
	YearsOfExperience  int               `json:"yearsOfExperience"  validate:"min=0,max=80"`
	Skills             []string          `json:"skills"             validate:"required,min=1,max=20,dive,notblank"`
	SocialLinks        map[string]string `json:"socialLinks"        validate:"omitempty,dive,keys,notblank,endkeys,url"`
	CollaborationStyle string            `json:"collaborationStyle" validate:"omitempty,oneof=Remote In-Person Hybrid"`
}

// SignInInput carries a signin request.
type SignInInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountValidator checks the shape of incoming data before it reaches storage.
type AccountValidator interface {
	ValidateRegistration(in RegisterInput) error
	ValidateSignIn(in SignInInput) error
	ValidatePatch(patch domain.AccountPatch) error
}

// AccountResolver returns the live account behind a verified token.
type AccountResolver interface {
	Resolve(ctx context.Context, id string) (*domain.Account, error)
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Authenticate(ctx context.Context, in SignInInput) (string, *domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error)
	SoftDelete(ctx context.Context, id string) (*domain.Account, error)
}
