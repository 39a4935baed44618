// Package validation holds field-shape rules for account input. It is pure:
// it never touches storage and reports every problem it finds as a
// *domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// Validator wraps go-playground/validator with the account rules registered.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom "phone", "strongpassword",
// "passwordbytes" and "notblank" tags. It panics if a tag cannot be registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	for tag, fn := range map[string]validator.Func{
		"phone":          validatePhone,
		"strongpassword": validateStrongPassword,
		"passwordbytes":  validatePasswordBytes,
		"notblank":       validators.NotBlank,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %q: %v", tag, err))
		}
	}
	return &Validator{v: v}
}

// patchRules mirrors domain.AccountPatch with the same field limits as signup.
type patchRules struct {
	FirstName          *string           `json:"firstName"          validate:"omitnil,min=3,max=20"`
	LastName           *string           `json:"lastName"           validate:"omitnil,min=3,max=20"`
	Age                *int              `json:"age"                validate:"omitnil,min=18,max=100"`
	ProfilePicture     *string           `json:"profilePicture"     validate:"omitnil,url"`
	CoverPicture       *string           `json:"coverPicture"       validate:"omitnil,url"`
	Bio                *string           `json:"bio"                validate:"omitnil,min=10,max=300"`
	Location           *string           `json:"location"           validate:"omitnil,max=50"`
	PrimaryRole        *string           `json:"primaryRole"        validate:"omitnil,min=3,max=30"`
	YearsOfExperience  *int              `json:"yearsOfExperience"  validate:"omitnil,min=0,max=80"`
	Skills             []string          `json:"skills"             validate:"omitnil,min=1,max=20,dive,notblank"`
	SocialLinks        map[string]string `json:"socialLinks"        validate:"omitnil,dive,keys,notblank,endkeys,url"`
	CollaborationStyle *string           `json:"collaborationStyle" validate:"omitnil,oneof=Remote In-Person Hybrid"`
}

func (v *Validator) ValidateRegistration(in ports.RegisterInput) error {
	return v.Struct(in)
}

func (v *Validator) ValidateSignIn(in ports.SignInInput) error {
	return v.Struct(in)
}

func (v *Validator) ValidatePatch(p domain.AccountPatch) error {
	if p.IsEmpty() {
		return domain.NewValidationError("no update data provided")
	}
	return v.Struct(patchRules{
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Age:                p.Age,
		ProfilePicture:     p.ProfilePicture,
		CoverPicture:       p.CoverPicture,
		Bio:                p.Bio,
		Location:           p.Location,
		PrimaryRole:        p.PrimaryRole,
		YearsOfExperience:  p.YearsOfExperience,
		Skills:             p.Skills,
		SocialLinks:        p.SocialLinks,
		CollaborationStyle: p.CollaborationStyle,
	})
}

// Struct validates any tagged struct and converts failures into a
// *domain.ValidationError. It also satisfies echo.Validator.
func (v *Validator) Struct(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return domain.NewValidationError(msgs...)
	}
	return domain.NewValidationError(err.Error())
}

// Validate satisfies the echo.Validator interface.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "phone":
		return field + " must be a valid contact number"
	case "strongpassword":
		return field + " must be at least 8 characters long and include uppercase letters, lowercase letters, numbers, and symbols"
	case "passwordbytes":
		return fmt.Sprintf("%s must be at most %d bytes", field, maxPasswordBytes)
	case "notblank":
		return field + " must not be blank"
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Map || k == reflect.Array
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// validatePhone accepts international numbers with optional "+" and common
// separators (spaces, dashes, dots, parentheses).
func validatePhone(fl validator.FieldLevel) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, fl.Field().String())
	return phonePattern.MatchString(cleaned)
}

func validatePasswordBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxPasswordBytes
}

// validateStrongPassword requires 8+ characters with at least one upper-case
// letter, lower-case letter, digit and symbol.
func validateStrongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
