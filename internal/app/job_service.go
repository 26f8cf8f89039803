package app

import (
	"context"
	"strings"

	"gigboard/internal/common"
	"gigboard/internal/domain/analytics"
	"gigboard/internal/domain/job"
	"gigboard/internal/domain/user"
)

type JobService struct {
	repo      job.Repository
	users     user.Repository
	analytics analytics.Repository
}

func NewJobService(repo job.Repository, users user.Repository, analytics analytics.Repository) *JobService {
	return &JobService{repo: repo, users: users, analytics: analytics}
}

type CreateJobInput struct {
	Title       string
	Description string
	Skills      []string
	Salary      string
	Location    string
	Type        string
	Category    string
}

func (s *JobService) Create(ctx context.Context, actorID common.UUID, in CreateJobInput) (*job.Job, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleCompany {
		return nil, common.NewError(common.CodeForbidden, "only companies can post jobs", nil)
	}
	if !actor.OnboardingCompleted {
		return nil, common.NewValidationError("complete onboarding first", map[string]string{"onboarding": "onboarding must be completed before posting"})
	}
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "location is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "category is required"
	}
	if len(in.Skills) == 0 {
		fields["skills"] = "at least one skill is required"
	}
	jobType := job.Type(strings.ToLower(strings.TrimSpace(in.Type)))
	switch jobType {
	case job.TypeFullTime, job.TypePartTime, job.TypeContract, job.TypeInternship:
	default:
		fields["type"] = "type must be full-time, part-time, contract, or internship"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid job", fields)
	}

	created, err := s.repo.Create(ctx, job.Job{
		CompanyID:   actorID,
		CompanyName: actor.CompanyName,
		Title:       in.Title,
		Description: in.Description,
		Skills:      in.Skills,
		Salary:      in.Salary,
		Location:    in.Location,
		Type:        jobType,
		Category:    in.Category,
		Status:      job.StatusOpen,
	})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "job.created", UserID: &actorID, Payload: analyticsPayload(ctx, map[string]string{"job_id": created.ID.String()})})
	return created, nil
}

func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Job, error) {
	return s.repo.GetByID(ctx, id)
}

type ListJobsInput struct {
	Status    string
	Type      string
	Skills    []string
	CompanyID string
	// Mine restricts the listing to the actor's own postings regardless of the
	// company filter; requires a company actor.
	Mine    bool
	ActorID common.UUID
	Limit   int
	Offset  int
}

func (s *JobService) List(ctx context.Context, in ListJobsInput) ([]job.Job, error) {
	filter := job.ListFilter{Skills: in.Skills, Limit: in.Limit, Offset: in.Offset}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	status := job.StatusOpen
	if in.Status != "" {
		status = job.Status(strings.ToLower(strings.TrimSpace(in.Status)))
	}
	if in.Mine {
		actor, err := s.users.GetByID(ctx, in.ActorID)
		if err != nil {
			return nil, err
		}
		if actor.Role != user.RoleCompany {
			return nil, common.NewError(common.CodeForbidden, "only companies can list their own jobs", nil)
		}
		filter.CompanyID = &actor.ID
		// Companies reviewing their own board see closed and filled postings
		// too when they ask for all.
		if strings.EqualFold(in.Status, "all") {
			return s.repo.List(ctx, filter)
		}
	} else if in.CompanyID != "" {
		companyID, err := common.ParseUUID(in.CompanyID)
		if err != nil {
			return nil, common.NewValidationError("invalid request", map[string]string{"company": "invalid uuid"})
		}
		filter.CompanyID = &companyID
	}

	switch status {
	case job.StatusOpen, job.StatusClosed, job.StatusFilled:
	default:
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be open, closed, or filled"})
	}
	filter.Status = &status

	if in.Type != "" {
		jobType := job.Type(strings.ToLower(strings.TrimSpace(in.Type)))
		filter.Type = &jobType
	}
	return s.repo.List(ctx, filter)
}

func (s *JobService) UpdateStatus(ctx context.Context, actorID, id common.UUID, rawStatus string) (*job.Job, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleCompany {
		return nil, common.NewError(common.CodeForbidden, "only companies can update jobs", nil)
	}
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.CompanyID != actorID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another company", nil)
	}
	status := job.Status(strings.ToLower(strings.TrimSpace(rawStatus)))
	switch status {
	case job.StatusOpen, job.StatusClosed, job.StatusFilled:
	default:
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be open, closed, or filled"})
	}
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "job.status_changed", UserID: &actorID, Payload: analyticsPayload(ctx, map[string]string{"job_id": id.String(), "status": string(status)})})
	return updated, nil
}
