package job

import (
	"context"

	"gigboard/internal/common"
)

type ListFilter struct {
	Status    *Status
	Type      *Type
	Skills    []string
	CompanyID *common.UUID
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, posting Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	List(ctx context.Context, filter ListFilter) ([]Job, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Job, error)
	// IncrementApplicationsCount bumps the display counter atomically. It is
	// best effort with respect to the applications table: a failure between
	// insert and increment leaves the counter behind by one.
	IncrementApplicationsCount(ctx context.Context, id common.UUID) error
	CountByCompany(ctx context.Context, companyID common.UUID, status *Status) (int, error)
	Count(ctx context.Context) (int, error)
}
