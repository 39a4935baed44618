package handler

import "time"

type signUpRequest struct {
	FirstName          string            `json:"firstName"`
	LastName           string            `json:"lastName"`
	Age                int               `json:"age"`
	ContactNumber      string            `json:"contactNumber"`
	Email              string            `json:"email"`
	Password           string            `json:"password"`
	ProfilePicture     string            `json:"profilePicture,omitempty"`
	CoverPicture       string            `json:"coverPicture,omitempty"`
	Bio                string            `json:"bio,omitempty"`
	Location           string            `json:"location,omitempty"`
	PrimaryRole        string            `json:"primaryRole"`
	YearsOfExperience  int               `json:"yearsOfExperience"`
	Skills             []string          `json:"skills"`
	SocialLinks        map[string]string `json:"socialLinks,omitempty"`
	CollaborationStyle string            `json:"collaborationStyle,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateAccountRequest only carries allow-listed fields; anything else is
// rejected by the AllowFields middleware before binding.
type updateAccountRequest struct {
	FirstName          *string           `json:"firstName,omitempty"`
	LastName           *string           `json:"lastName,omitempty"`
	Age                *int              `json:"age,omitempty"`
	ProfilePicture     *string           `json:"profilePicture,omitempty"`
	CoverPicture       *string           `json:"coverPicture,omitempty"`
	Bio                *string           `json:"bio,omitempty"`
	Location           *string           `json:"location,omitempty"`
	PrimaryRole        *string           `json:"primaryRole,omitempty"`
	YearsOfExperience  *int              `json:"yearsOfExperience,omitempty"`
	Skills             []string          `json:"skills,omitempty"`
	SocialLinks        map[string]string `json:"socialLinks,omitempty"`
	CollaborationStyle *string           `json:"collaborationStyle,omitempty"`
}

// accountResponse is the public view of an account. The password hash never
// leaves the service.
type accountResponse struct {
	ID                 string            `json:"_id"`
	FirstName          string            `json:"firstName"`
	LastName           string            `json:"lastName"`
	Age                int               `json:"age"`
	ContactNumber      string            `json:"contactNumber"`
	Email              string            `json:"email"`
	ProfilePicture     string            `json:"profilePicture"`
	CoverPicture       string            `json:"coverPicture"`
	Bio                string            `json:"bio"`
	Location           string            `json:"location,omitempty"`
	PrimaryRole        string            `json:"primaryRole"`
	YearsOfExperience  int               `json:"yearsOfExperience"`
	Skills             []string          `json:"skills"`
	SocialLinks        map[string]string `json:"socialLinks,omitempty"`
	CollaborationStyle string            `json:"collaborationStyle,omitempty"`
	StatusDeleted      string            `json:"statusDeleted"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

type signUpResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

type signInResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
	Token   string `json:"token"`
}

type userResponse struct {
	Message string          `json:"message"`
	User    accountResponse `json:"user"`
}

type usersResponse struct {
	Message string            `json:"message"`
	Users   []accountResponse `json:"users"`
}

// ErrorResponse is the envelope every failed request is rendered with.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
