package app

import (
	"context"

	"gigboard/internal/common"
	"gigboard/internal/domain/application"
	"gigboard/internal/domain/job"
	"gigboard/internal/domain/user"
)

type StatsService struct {
	applications application.Repository
	jobs         job.Repository
	users        user.Repository
}

func NewStatsService(applications application.Repository, jobs job.Repository, users user.Repository) *StatsService {
	return &StatsService{applications: applications, jobs: jobs, users: users}
}

type FreelancerStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
}

type CompanyStats struct {
	OpenJobs            int `json:"open_jobs"`
	TotalApplications   int `json:"total_applications"`
	PendingApplications int `json:"pending_applications"`
}

type AdminStats struct {
	Users        int `json:"users"`
	Jobs         int `json:"jobs"`
	Applications int `json:"applications"`
}

// ForFreelancer counts each status with its own query; sharing one count
// across labels is exactly the kind of dashboard bug this avoids.
func (s *StatsService) ForFreelancer(ctx context.Context, freelancerID common.UUID) (*FreelancerStats, error) {
	stats := &FreelancerStats{}
	total, err := s.applications.Count(ctx, application.ListFilter{FreelancerID: &freelancerID})
	if err != nil {
		return nil, err
	}
	stats.Total = total
	for status, target := range map[application.Status]*int{
		application.StatusPending:     &stats.Pending,
		application.StatusShortlisted: &stats.Shortlisted,
		application.StatusAccepted:    &stats.Accepted,
		application.StatusRejected:    &stats.Rejected,
	} {
		status := status
		count, err := s.applications.Count(ctx, application.ListFilter{FreelancerID: &freelancerID, Status: &status})
		if err != nil {
			return nil, err
		}
		*target = count
	}
	return stats, nil
}

func (s *StatsService) ForCompany(ctx context.Context, companyID common.UUID) (*CompanyStats, error) {
	open := job.StatusOpen
	openJobs, err := s.jobs.CountByCompany(ctx, companyID, &open)
	if err != nil {
		return nil, err
	}
	total, err := s.applications.Count(ctx, application.ListFilter{CompanyID: &companyID})
	if err != nil {
		return nil, err
	}
	pending := application.StatusPending
	pendingCount, err := s.applications.Count(ctx, application.ListFilter{CompanyID: &companyID, Status: &pending})
	if err != nil {
		return nil, err
	}
	return &CompanyStats{OpenJobs: openJobs, TotalApplications: total, PendingApplications: pendingCount}, nil
}

func (s *StatsService) ForActor(ctx context.Context, actorID common.UUID) (interface{}, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case user.RoleFreelancer:
		return s.ForFreelancer(ctx, actorID)
	case user.RoleCompany:
		return s.ForCompany(ctx, actorID)
	default:
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
}

func (s *StatsService) ForAdmin(ctx context.Context, actorID common.UUID) (*AdminStats, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "admin role required", nil)
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, err
	}
	applications, err := s.applications.Count(ctx, application.ListFilter{})
	if err != nil {
		return nil, err
	}
	return &AdminStats{Users: users, Jobs: jobs, Applications: applications}, nil
}
