package domain

import (
	"strings"
	"time"
)

// Status is the soft-delete marker of an account. It only ever moves NEW → DELETED.
type Status string

const (
	StatusNew     Status = "NEW"
	StatusDeleted Status = "DELETED"
)

const (
	CollaborationRemote   = "Remote"
	CollaborationInPerson = "In-Person"
	CollaborationHybrid   = "Hybrid"
)

const (
	DefaultProfilePicture = "https://pixabay.com/images/search/profile%20icon/"
	DefaultCoverPicture   = "https://unsplash.com/s/photos/cover-photo"
	DefaultBio            = "This is default bio from the system"
)

// Account models a registered developer profile.
type Account struct {
	ID                 string            `json:"_id"`
	FirstName          string            `json:"firstName"`
	LastName           string            `json:"lastName"`
	Age                int               `json:"age"`
	ContactNumber      string            `json:"contactNumber"`
	Email              string            `json:"email"`
	PasswordHash       string            `json:"-"`
	ProfilePicture     string            `json:"profilePicture"`
	CoverPicture       string            `json:"coverPicture"`
	Bio                string            `json:"bio"`
	Location           string            `json:"location,omitempty"`
	PrimaryRole        string            `json:"primaryRole"`
	YearsOfExperience  int               `json:"yearsOfExperience"`
	Skills             []string          `json:"skills"`
	SocialLinks        map[string]string `json:"socialLinks,omitempty"`
	CollaborationStyle string            `json:"collaborationStyle,omitempty"`
	StatusDeleted      Status            `json:"statusDeleted"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// IsDeleted reports whether the account has been soft-deleted.
func (a *Account) IsDeleted() bool {
	return a.StatusDeleted == StatusDeleted
}

// ApplyDefaults fills optional profile fields that were left empty at signup.
func (a *Account) ApplyDefaults() {
	if a.ProfilePicture == "" {
		a.ProfilePicture = DefaultProfilePicture
	}
	if a.CoverPicture == "" {
		a.CoverPicture = DefaultCoverPicture
	}
	if a.Bio == "" {
		a.Bio = DefaultBio
	}
	if a.StatusDeleted == "" {
		a.StatusDeleted = StatusNew
	}
}

// NormalizeEmail returns the canonical (trimmed, lower-cased) form used for
// storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountPatch is a partial update. Nil fields are left untouched.
type AccountPatch struct {
	FirstName          *string
	LastName           *string
	Age                *int
	ProfilePicture     *string
	CoverPicture       *string
	Bio                *string
	Location           *string
	PrimaryRole        *string
	YearsOfExperience  *int
	Skills             []string
	SocialLinks        map[string]string
	CollaborationStyle *string

	// Status is set by the service only (soft delete); it never comes from a request.
	Status *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil &&
		p.ProfilePicture == nil && p.CoverPicture == nil && p.Bio == nil &&
		p.Location == nil && p.PrimaryRole == nil && p.YearsOfExperience == nil &&
		p.Skills == nil && p.SocialLinks == nil && p.CollaborationStyle == nil &&
		p.Status == nil
}

// Apply copies the set fields of p onto a. Used by in-memory stores and tests.
func (p AccountPatch) Apply(a *Account) {
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.ProfilePicture != nil {
		a.ProfilePicture = *p.ProfilePicture
	}
	if p.CoverPicture != nil {
		a.CoverPicture = *p.CoverPicture
	}
	if p.Bio != nil {
		a.Bio = *p.Bio
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.PrimaryRole != nil {
		a.PrimaryRole = *p.PrimaryRole
	}
	if p.YearsOfExperience != nil {
		a.YearsOfExperience = *p.YearsOfExperience
	}
	if p.Skills != nil {
		a.Skills = append([]string(nil), p.Skills...)
	}
	if p.SocialLinks != nil {
		links := make(map[string]string, len(p.SocialLinks))
		for k, v := range p.SocialLinks {
			links[k] = v
		}
		a.SocialLinks = links
	}
	if p.CollaborationStyle != nil {
		a.CollaborationStyle = *p.CollaborationStyle
	}
	if p.Status != nil {
		a.StatusDeleted = *p.Status
	}
}

// UpdatableFields is the allow-list of JSON keys a profile PATCH may carry.
var UpdatableFields = []string{
	"firstName",
	"lastName",
	"age",
	"profilePicture",
	"coverPicture",
	"bio",
	"location",
	"primaryRole",
	"yearsOfExperience",
	"skills",
	"socialLinks",
	"collaborationStyle",
}
