package app

import (
	"context"
	"strings"
	"time"

	"gigboard/internal/common"
	"gigboard/internal/domain/analytics"
	"gigboard/internal/domain/application"
	"gigboard/internal/domain/job"
	"gigboard/internal/domain/message"
	"gigboard/internal/domain/user"
)

type ApplicationService struct {
	repo      application.Repository
	jobs      job.Repository
	users     user.Repository
	messages  message.Repository
	analytics analytics.Repository
}

func NewApplicationService(repo application.Repository, jobs job.Repository, users user.Repository, messages message.Repository, analytics analytics.Repository) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, users: users, messages: messages, analytics: analytics}
}

type CreateApplicationInput struct {
	JobID             string
	CompanyID         string
	CoverLetter       string
	ProposedRate      *float64
	EstimatedDuration string
	Portfolio         []string
	Resume            string
}

// Create submits a job application or a spontaneous inquiry on behalf of the
// actor. The (job, freelancer) duplicate pre-check here is advisory; the
// storage unique constraint is what closes the race between two concurrent
// submissions.
func (s *ApplicationService) Create(ctx context.Context, actorID common.UUID, in CreateApplicationInput) (*application.Application, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleFreelancer {
		return nil, common.NewError(common.CodeForbidden, "only freelancers can apply", nil)
	}
	if !actor.OnboardingCompleted {
		return nil, common.NewValidationError("complete onboarding first", map[string]string{"onboarding": "onboarding must be completed before applying"})
	}
	if strings.TrimSpace(in.CoverLetter) == "" {
		return nil, common.NewValidationError("cover letter is required", map[string]string{"cover_letter": "cover_letter is required"})
	}

	app := application.Application{
		FreelancerID:      actorID,
		CoverLetter:       in.CoverLetter,
		ProposedRate:      in.ProposedRate,
		EstimatedDuration: in.EstimatedDuration,
		Portfolio:         in.Portfolio,
		Resume:            in.Resume,
		Status:            application.StatusPending,
	}

	var jobID *common.UUID
	if strings.TrimSpace(in.JobID) == "" {
		companyID, err := s.inquiryCompany(ctx, actorID, in.CompanyID)
		if err != nil {
			return nil, err
		}
		app.Kind = application.KindSpontaneous
		app.CompanyID = companyID
	} else {
		parsed, err := common.ParseUUID(in.JobID)
		if err != nil {
			return nil, common.NewValidationError("invalid request", map[string]string{"job_id": "invalid uuid"})
		}
		posting, err := s.jobs.GetByID(ctx, parsed)
		if err != nil {
			return nil, err
		}
		if posting.Status != job.StatusOpen {
			return nil, common.NewError(common.CodeJobUnavailable, "job is no longer accepting applications", nil)
		}
		if _, err := s.repo.FindByJobAndFreelancer(ctx, posting.ID, actorID); err == nil {
			return nil, common.NewError(common.CodeDuplicateApplication, "already applied to this job", nil)
		} else if !common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		app.Kind = application.KindJobApplication
		app.JobID = &posting.ID
		app.CompanyID = posting.CompanyID
		jobID = &posting.ID
	}

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	if jobID != nil {
		// Display statistic only; a failure here leaves the counter behind by
		// one, which is acceptable.
		_ = s.jobs.IncrementApplicationsCount(ctx, *jobID)
	}
	payload := map[string]string{"application_id": created.ID.String(), "kind": string(created.Kind)}
	if jobID != nil {
		payload["job_id"] = jobID.String()
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.created", UserID: &actorID, Payload: analyticsPayload(ctx, payload)})
	return created, nil
}

func (s *ApplicationService) inquiryCompany(ctx context.Context, actorID common.UUID, rawCompanyID string) (common.UUID, error) {
	if strings.TrimSpace(rawCompanyID) == "" {
		return "", common.NewError(common.CodeMissingCompany, "company id is required for spontaneous inquiries", nil)
	}
	companyID, err := common.ParseUUID(rawCompanyID)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{"company_id": "invalid uuid"})
	}
	company, err := s.users.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	if company.Role != user.RoleCompany {
		return "", common.NewValidationError("invalid request", map[string]string{"company_id": "target user is not a company"})
	}
	// At most one pending inquiry per (company, freelancer); a processed
	// inquiry does not block a new one.
	if _, err := s.repo.FindPendingInquiry(ctx, companyID, actorID); err == nil {
		return "", common.NewError(common.CodeDuplicateInquiry, "a pending inquiry with this company already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return "", err
	}
	return companyID, nil
}

// Get returns the application if the actor is a party to it or an admin.
func (s *ApplicationService) Get(ctx context.Context, actorID, id common.UUID) (*application.Application, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.FreelancerID != actorID && app.CompanyID != actorID && actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeAccessDenied, "not a party to this application", nil)
	}
	return app, nil
}

type ListApplicationsInput struct {
	Status string
	JobID  string
}

// List returns applications scoped by the actor's role: freelancers see their
// own submissions, companies their inbox, admins everything.
func (s *ApplicationService) List(ctx context.Context, actorID common.UUID, in ListApplicationsInput) ([]application.Application, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	var filter application.ListFilter
	switch actor.Role {
	case user.RoleFreelancer:
		filter.FreelancerID = &actorID
	case user.RoleCompany:
		filter.CompanyID = &actorID
	case user.RoleAdmin:
	default:
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	if in.Status != "" {
		status := application.Status(strings.ToLower(strings.TrimSpace(in.Status)))
		if !status.IsKnown() {
			return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, reviewing, shortlisted, rejected, or accepted"})
		}
		filter.Status = &status
	}
	if in.JobID != "" {
		jobID, err := common.ParseUUID(in.JobID)
		if err != nil {
			return nil, common.NewValidationError("invalid request", map[string]string{"job_id": "invalid uuid"})
		}
		filter.JobID = &jobID
	}
	return s.repo.List(ctx, filter)
}

type AcceptancePayload struct {
	Email   string
	Phone   string
	Message string
}

type UpdateStatusInput struct {
	Status     string
	Acceptance *AcceptancePayload
}

// UpdateStatus moves the application through its lifecycle. Terminal statuses
// are final; non-terminal statuses may move freely among themselves, so a
// company can legally pull a shortlisted candidate back to reviewing. On
// acceptance the contact payload is stamped and persisted atomically with the
// status change.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actorID, id common.UUID, in UpdateStatusInput) (*application.Application, error) {
	app, err := s.authorizeCompanyUpdate(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	next := application.Status(strings.ToLower(strings.TrimSpace(in.Status)))
	if !next.IsKnown() {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, reviewing, shortlisted, rejected, or accepted"})
	}
	if app.Status.IsTerminal() {
		return nil, common.NewError(common.CodeValidation, "application status is final", nil)
	}

	var acceptance *application.AcceptanceDetails
	if next == application.StatusAccepted {
		if in.Acceptance == nil {
			return nil, common.NewValidationError("acceptance details are required", map[string]string{"acceptance_details": "email and message are required when accepting"})
		}
		if strings.TrimSpace(in.Acceptance.Email) == "" {
			return nil, common.NewValidationError("acceptance details are required", map[string]string{"email": "email is required"})
		}
		if strings.TrimSpace(in.Acceptance.Message) == "" {
			return nil, common.NewValidationError("acceptance details are required", map[string]string{"message": "message is required"})
		}
		acceptance = &application.AcceptanceDetails{
			Email:      in.Acceptance.Email,
			Phone:      in.Acceptance.Phone,
			Message:    in.Acceptance.Message,
			AcceptedAt: time.Now().UTC(),
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next, acceptance)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.status_changed", UserID: &actorID, Payload: analyticsPayload(ctx, map[string]string{"application_id": id.String(), "status": string(next)})})
	return updated, nil
}

type UpdateApplicationInput struct {
	Status       string
	CompanyNotes string
	Message      string
}

// Update is the company review surface: optional status change, private notes,
// and an optional message appended to the thread.
func (s *ApplicationService) Update(ctx context.Context, actorID, id common.UUID, in UpdateApplicationInput) (*application.Application, error) {
	app, err := s.authorizeCompanyUpdate(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if in.Status != "" {
		app, err = s.UpdateStatus(ctx, actorID, id, UpdateStatusInput{Status: in.Status})
		if err != nil {
			return nil, err
		}
	}
	if in.CompanyNotes != "" {
		app, err = s.repo.UpdateNotes(ctx, id, in.CompanyNotes)
		if err != nil {
			return nil, err
		}
	}
	if in.Message != "" {
		if _, err := s.messages.Create(ctx, message.Message{ApplicationID: id, Sender: message.SenderCompany, Body: in.Message}); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Withdraw deletes the actor's own application while it is still pending or
// reviewing. Shortlisted and terminal applications cannot be withdrawn.
func (s *ApplicationService) Withdraw(ctx context.Context, actorID, id common.UUID) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != user.RoleFreelancer {
		return common.NewError(common.CodeForbidden, "only freelancers can withdraw applications", nil)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if app.FreelancerID != actorID {
		return common.NewError(common.CodeForbidden, "application belongs to another freelancer", nil)
	}
	if app.Status != application.StatusPending && app.Status != application.StatusReviewing {
		return common.NewError(common.CodeInvalidStage, "application can no longer be withdrawn", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.withdrawn", UserID: &actorID, Payload: analyticsPayload(ctx, map[string]string{"application_id": id.String()})})
	return nil
}

func (s *ApplicationService) authorizeCompanyUpdate(ctx context.Context, actorID, id common.UUID) (*application.Application, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleCompany {
		return nil, common.NewError(common.CodeForbidden, "only companies can update applications", nil)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.CompanyID != actorID {
		return nil, common.NewError(common.CodeForbidden, "application was sent to another company", nil)
	}
	return app, nil
}
