package mongo

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devmatch/account-service/internal/core/domain"
)

func toMongoAccount(a *domain.Account) mongoAccount {
	return mongoAccount{
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Age:                a.Age,
		ContactNumber:      a.ContactNumber,
		Email:              domain.NormalizeEmail(a.Email),
		Password:           a.PasswordHash,
		ProfilePicture:     a.ProfilePicture,
		CoverPicture:       a.CoverPicture,
		Bio:                a.Bio,
		Location:           a.Location,
		PrimaryRole:        a.PrimaryRole,
		YearsOfExperience:  a.YearsOfExperience,
		Skills:             a.Skills,
		SocialLinks:        a.SocialLinks,
		CollaborationStyle: a.CollaborationStyle,
		StatusDeleted:      string(a.StatusDeleted),
		CreatedAt:          a.CreatedAt.UTC(),
		UpdatedAt:          a.UpdatedAt.UTC(),
	}
}

func (m *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:                 m.ID.Hex(),
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Age:                m.Age,
		ContactNumber:      m.ContactNumber,
		Email:              m.Email,
		PasswordHash:       m.Password,
		ProfilePicture:     m.ProfilePicture,
		CoverPicture:       m.CoverPicture,
		Bio:                m.Bio,
		Location:           m.Location,
		PrimaryRole:        m.PrimaryRole,
		YearsOfExperience:  m.YearsOfExperience,
		Skills:             m.Skills,
		SocialLinks:        m.SocialLinks,
		CollaborationStyle: m.CollaborationStyle,
		StatusDeleted:      domain.Status(m.StatusDeleted),
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

// patchToSet builds the $set document for the fields present in patch.
func patchToSet(p domain.AccountPatch) bson.M {
	set := bson.M{}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.ProfilePicture != nil {
		set["profile_picture"] = *p.ProfilePicture
	}
	if p.CoverPicture != nil {
		set["cover_picture"] = *p.CoverPicture
	}
	if p.Bio != nil {
		set["bio"] = *p.Bio
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.PrimaryRole != nil {
		set["primary_role"] = *p.PrimaryRole
	}
	if p.YearsOfExperience != nil {
		set["years_of_experience"] = *p.YearsOfExperience
	}
	if p.Skills != nil {
		set["skills"] = p.Skills
	}
	if p.SocialLinks != nil {
		set["social_links"] = p.SocialLinks
	}
	if p.CollaborationStyle != nil {
		set["collaboration_style"] = *p.CollaborationStyle
	}
	if p.Status != nil {
		set["status_deleted"] = string(*p.Status)
	}
	return set
}
