package application

import (
	"context"

	"gigboard/internal/common"
)

type ListFilter struct {
	FreelancerID *common.UUID
	CompanyID    *common.UUID
	JobID        *common.UUID
	Status       *Status
}

type Repository interface {
	// Create inserts the application. The storage layer enforces uniqueness of
	// (job, freelancer) for job applications; a constraint violation is
	// returned as common.CodeDuplicateApplication.
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID common.UUID) (*Application, error)
	FindPendingInquiry(ctx context.Context, companyID, freelancerID common.UUID) (*Application, error)
	List(ctx context.Context, filter ListFilter) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status, acceptance *AcceptanceDetails) (*Application, error)
	UpdateNotes(ctx context.Context, id common.UUID, notes string) (*Application, error)
	Delete(ctx context.Context, id common.UUID) error
	Count(ctx context.Context, filter ListFilter) (int, error)
}
