package user

import (
	"context"

	"gigboard/internal/common"
)

type OnboardingUpdate struct {
	Name        string
	CompanyName string
	Skills      []string
	Bio         string
}

type Repository interface {
	// Create inserts the account. The storage layer enforces auth_id and email
	// uniqueness; a violation is returned as common.CodeConflict.
	Create(ctx context.Context, account User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	FindByAuthID(ctx context.Context, authID string) (*User, error)
	CompleteOnboarding(ctx context.Context, id common.UUID, update OnboardingUpdate) (*User, error)
	Count(ctx context.Context) (int, error)
}
