package user

import (
	"time"

	"gigboard/internal/common"
)

type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleCompany    Role = "company"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID                  common.UUID `json:"id"`
	AuthID              string      `json:"-"`
	Email               string      `json:"email"`
	Name                string      `json:"name"`
	Role                Role        `json:"role"`
	OnboardingCompleted bool        `json:"onboarding_completed"`
	CompanyName         string      `json:"company_name,omitempty"`
	Skills              []string    `json:"skills,omitempty"`
	Bio                 string      `json:"bio,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}
