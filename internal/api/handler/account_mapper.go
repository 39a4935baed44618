package handler

import (
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req signUpRequest) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Age:                req.Age,
		ContactNumber:      req.ContactNumber,
		Email:              req.Email,
		Password:           req.Password,
		ProfilePicture:     req.ProfilePicture,
		CoverPicture:       req.CoverPicture,
		Bio:                req.Bio,
		Location:           req.Location,
		PrimaryRole:        req.PrimaryRole,
		YearsOfExperience:  req.YearsOfExperience,
		Skills:             req.Skills,
		SocialLinks:        req.SocialLinks,
		CollaborationStyle: req.CollaborationStyle,
	}
}

func toAccountPatch(req updateAccountRequest) domain.AccountPatch {
	return domain.AccountPatch{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Age:                req.Age,
		ProfilePicture:     req.ProfilePicture,
		CoverPicture:       req.CoverPicture,
		Bio:                req.Bio,
		Location:           req.Location,
		PrimaryRole:        req.PrimaryRole,
		YearsOfExperience:  req.YearsOfExperience,
		Skills:             req.Skills,
		SocialLinks:        req.SocialLinks,
		CollaborationStyle: req.CollaborationStyle,
	}
}

// --- Domain → Response ---

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:                 a.ID,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Age:                a.Age,
		ContactNumber:      a.ContactNumber,
		Email:              a.Email,
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
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func toAccountResponses(accounts []*domain.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}
