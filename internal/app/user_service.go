package app

import (
	"context"
	"strings"

	"gigboard/internal/common"
	"gigboard/internal/domain/analytics"
	"gigboard/internal/domain/user"
)

type UserService struct {
	users     user.Repository
	analytics analytics.Repository
}

func NewUserService(users user.Repository, analytics analytics.Repository) *UserService {
	return &UserService{users: users, analytics: analytics}
}

func (s *UserService) Get(ctx context.Context, id common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

type OnboardingInput struct {
	Role        string
	Email       string
	Name        string
	CompanyName string
	Skills      []string
	Bio         string
}

// CompleteOnboarding provisions or updates the account behind the
// authenticated subject. On first contact it creates the account with the
// requested role; afterwards the role is fixed and only the profile fields
// change. Completing it flips the gate that allows the account to submit or
// receive applications.
func (s *UserService) CompleteOnboarding(ctx context.Context, authID string, in OnboardingInput) (*user.User, error) {
	if strings.TrimSpace(authID) == "" {
		return nil, common.NewError(common.CodeUnauthorized, "authentication required", nil)
	}
	account, err := s.users.FindByAuthID(ctx, authID)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	role := user.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	fields := map[string]string{}
	if account == nil {
		switch role {
		case user.RoleFreelancer, user.RoleCompany:
		case "":
			fields["role"] = "role is required"
		default:
			fields["role"] = "role must be freelancer or company"
		}
		if strings.TrimSpace(in.Email) == "" {
			fields["email"] = "email is required"
		}
	} else {
		if role != "" && role != account.Role {
			fields["role"] = "role cannot be changed after onboarding"
		}
		role = account.Role
	}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	switch role {
	case user.RoleFreelancer:
		if len(in.Skills) == 0 {
			fields["skills"] = "at least one skill is required"
		}
	case user.RoleCompany:
		if strings.TrimSpace(in.CompanyName) == "" {
			fields["company_name"] = "company_name is required"
		}
	case user.RoleAdmin:
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid profile", fields)
	}

	if account == nil {
		created, err := s.users.Create(ctx, user.User{
			AuthID:              authID,
			Email:               in.Email,
			Name:                in.Name,
			Role:                role,
			OnboardingCompleted: true,
			CompanyName:         in.CompanyName,
			Skills:              in.Skills,
			Bio:                 in.Bio,
		})
		if err != nil {
			// The loser of two concurrent first onboardings hits the auth_id
			// constraint; retrying the lookup turns it into a plain update.
			if common.Is(err, common.CodeConflict) {
				return s.CompleteOnboarding(ctx, authID, OnboardingInput{Name: in.Name, CompanyName: in.CompanyName, Skills: in.Skills, Bio: in.Bio})
			}
			return nil, err
		}
		_ = s.analytics.Create(ctx, analytics.Event{Name: "user.onboarding_completed", UserID: &created.ID, Payload: analyticsPayload(ctx, map[string]string{"role": string(role), "first_contact": "true"})})
		return created, nil
	}

	updated, err := s.users.CompleteOnboarding(ctx, account.ID, user.OnboardingUpdate{
		Name:        in.Name,
		CompanyName: in.CompanyName,
		Skills:      in.Skills,
		Bio:         in.Bio,
	})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "user.onboarding_completed", UserID: &account.ID, Payload: analyticsPayload(ctx, map[string]string{"role": string(role)})})
	return updated, nil
}
