package app

import (
	"context"
	"sync"
	"testing"

	"gigboard/internal/common"
	"gigboard/internal/domain/application"
	"gigboard/internal/domain/job"
	"gigboard/internal/domain/user"
)

type applicationFixture struct {
	service  *ApplicationService
	apps     *fakeApplicationRepo
	jobs     *fakeJobRepo
	users    *fakeUserRepo
	messages *fakeMessageRepo
	events   *fakeAnalyticsRepo
}

func newApplicationFixture() *applicationFixture {
	apps := newFakeApplicationRepo()
	jobs := newFakeJobRepo()
	users := newFakeUserRepo()
	messages := newFakeMessageRepo()
	events := newFakeAnalyticsRepo()
	return &applicationFixture{
		service:  NewApplicationService(apps, jobs, users, messages, events),
		apps:     apps,
		jobs:     jobs,
		users:    users,
		messages: messages,
		events:   events,
	}
}

func (f *applicationFixture) seedFreelancer(t *testing.T) common.UUID {
	t.Helper()
	return f.users.add(user.User{Role: user.RoleFreelancer, OnboardingCompleted: true, Name: "Ada"})
}

func (f *applicationFixture) seedCompany(t *testing.T) common.UUID {
	t.Helper()
	return f.users.add(user.User{Role: user.RoleCompany, OnboardingCompleted: true, CompanyName: "Initech"})
}

func (f *applicationFixture) seedOpenJob(t *testing.T, companyID common.UUID) *job.Job {
	t.Helper()
	posting, err := f.jobs.Create(context.Background(), job.Job{
		CompanyID:   companyID,
		CompanyName: "Initech",
		Title:       "Backend engineer",
		Status:      job.StatusOpen,
	})
	if err != nil {
		t.Fatalf("expected job created, got %v", err)
	}
	return posting
}

func TestApplicationServiceCreate_JobApplication(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
		JobID:       posting.ID.String(),
		CoverLetter: "I would like to apply.",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Kind != application.KindJobApplication {
		t.Fatalf("expected kind job_application, got %s", created.Kind)
	}
	if created.Status != application.StatusPending {
		t.Fatalf("expected status pending, got %s", created.Status)
	}
	if created.JobID == nil || *created.JobID != posting.ID {
		t.Fatal("expected job_id to be set")
	}
	if created.CompanyID != companyID {
		t.Fatalf("expected company_id to be denormalized from the job, got %s", created.CompanyID)
	}
	after, err := f.jobs.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected job to exist, got %v", err)
	}
	if after.ApplicationsCount != 1 {
		t.Fatalf("expected applications_count 1, got %d", after.ApplicationsCount)
	}
	names := f.events.names()
	if len(names) != 1 || names[0] != "application.created" {
		t.Fatalf("expected application.created event, got %v", names)
	}
}

func TestApplicationServiceCreate_DuplicateApplication(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	in := CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "first"}
	if _, err := f.service.Create(context.Background(), freelancerID, in); err != nil {
		t.Fatalf("expected first application to succeed, got %v", err)
	}
	_, err := f.service.Create(context.Background(), freelancerID, in)
	if !common.Is(err, common.CodeDuplicateApplication) {
		t.Fatalf("expected duplicate_application error, got %v", err)
	}
	after, err := f.jobs.GetByID(context.Background(), posting.ID)
	if err != nil {
		t.Fatalf("expected job to exist, got %v", err)
	}
	if after.ApplicationsCount != 1 {
		t.Fatalf("expected counter untouched by the rejected duplicate, got %d", after.ApplicationsCount)
	}
}

func TestApplicationServiceCreate_ConcurrentDuplicates(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	// Both submissions pass the advisory pre-check when interleaved; the
	// storage constraint must still let exactly one through.
	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
				JobID:       posting.ID.String(),
				CoverLetter: "racing",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !common.Is(err, common.CodeDuplicateApplication) {
			t.Fatalf("expected duplicate_application for losers, got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one submission to win, got %d", successes)
	}
	count, err := f.apps.Count(context.Background(), application.ListFilter{FreelancerID: &freelancerID})
	if err != nil {
		t.Fatalf("expected count, got %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored application, got %d", count)
	}
}

func TestApplicationServiceCreate_JobNotOpen(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)
	if _, err := f.jobs.UpdateStatus(context.Background(), posting.ID, job.StatusClosed); err != nil {
		t.Fatalf("expected status update, got %v", err)
	}

	_, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
		JobID:       posting.ID.String(),
		CoverLetter: "too late",
	})
	if !common.Is(err, common.CodeJobUnavailable) {
		t.Fatalf("expected job_unavailable error, got %v", err)
	}
}

func TestApplicationServiceCreate_EligibilityGates(t *testing.T) {
	f := newApplicationFixture()
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	_, err := f.service.Create(context.Background(), companyID, CreateApplicationInput{
		JobID:       posting.ID.String(),
		CoverLetter: "hi",
	})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for company actor, got %v", err)
	}

	rawID := f.users.add(user.User{Role: user.RoleFreelancer, OnboardingCompleted: false})
	_, err = f.service.Create(context.Background(), rawID, CreateApplicationInput{
		JobID:       posting.ID.String(),
		CoverLetter: "hi",
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error before onboarding, got %v", err)
	}

	readyID := f.seedFreelancer(t)
	_, err = f.service.Create(context.Background(), readyID, CreateApplicationInput{
		JobID:       posting.ID.String(),
		CoverLetter: "   ",
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for blank cover letter, got %v", err)
	}
}

func TestApplicationServiceCreate_SpontaneousInquiry(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
		CompanyID:   companyID.String(),
		CoverLetter: "open to work",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Kind != application.KindSpontaneous {
		t.Fatalf("expected kind spontaneous, got %s", created.Kind)
	}
	if created.JobID != nil {
		t.Fatal("expected job_id to be empty for an inquiry")
	}
	if created.CompanyID != companyID {
		t.Fatalf("expected company_id %s, got %s", companyID, created.CompanyID)
	}
}

func TestApplicationServiceCreate_ConcurrentInquiries(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)

	// As with job applications, the pre-check is advisory; the pending-inquiry
	// uniqueness at the storage layer decides the race.
	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
				CompanyID:   companyID.String(),
				CoverLetter: "racing",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !common.Is(err, common.CodeDuplicateInquiry) {
			t.Fatalf("expected duplicate_inquiry for losers, got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one inquiry to win, got %d", successes)
	}
}

func TestApplicationServiceCreate_InquiryMissingCompany(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)

	_, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
		CoverLetter: "open to work",
	})
	if !common.Is(err, common.CodeMissingCompany) {
		t.Fatalf("expected missing_company error, got %v", err)
	}
}

func TestApplicationServiceCreate_InquiryTargetNotCompany(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	otherFreelancerID := f.seedFreelancer(t)

	_, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
		CompanyID:   otherFreelancerID.String(),
		CoverLetter: "open to work",
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplicationServiceCreate_DuplicatePendingInquiry(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)

	in := CreateApplicationInput{CompanyID: companyID.String(), CoverLetter: "open to work"}
	first, err := f.service.Create(context.Background(), freelancerID, in)
	if err != nil {
		t.Fatalf("expected first inquiry to succeed, got %v", err)
	}
	_, err = f.service.Create(context.Background(), freelancerID, in)
	if !common.Is(err, common.CodeDuplicateInquiry) {
		t.Fatalf("expected duplicate_inquiry error, got %v", err)
	}

	// A processed inquiry no longer blocks a new one.
	if _, err := f.apps.UpdateStatus(context.Background(), first.ID, application.StatusRejected, nil); err != nil {
		t.Fatalf("expected status update, got %v", err)
	}
	if _, err := f.service.Create(context.Background(), freelancerID, in); err != nil {
		t.Fatalf("expected inquiry after rejection to succeed, got %v", err)
	}
}

func TestApplicationServiceGet_AccessControl(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)
	adminID := f.users.add(user.User{Role: user.RoleAdmin})
	strangerID := f.seedFreelancer(t)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{
		JobID:       posting.ID.String(),
		CoverLetter: "hi",
	})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	for _, actorID := range []common.UUID{freelancerID, companyID, adminID} {
		if _, err := f.service.Get(context.Background(), actorID, created.ID); err != nil {
			t.Fatalf("expected party %s to read the application, got %v", actorID, err)
		}
	}
	_, err = f.service.Get(context.Background(), strangerID, created.ID)
	if !common.Is(err, common.CodeAccessDenied) {
		t.Fatalf("expected access_denied for stranger, got %v", err)
	}
}

func TestApplicationServiceList_RoleScoping(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	otherID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	if _, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "a"}); err != nil {
		t.Fatalf("expected application created, got %v", err)
	}
	if _, err := f.service.Create(context.Background(), otherID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "b"}); err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	mine, err := f.service.List(context.Background(), freelancerID, ListApplicationsInput{})
	if err != nil {
		t.Fatalf("expected list, got %v", err)
	}
	if len(mine) != 1 || mine[0].FreelancerID != freelancerID {
		t.Fatalf("expected the freelancer to see only their own application, got %d", len(mine))
	}

	inbox, err := f.service.List(context.Background(), companyID, ListApplicationsInput{})
	if err != nil {
		t.Fatalf("expected list, got %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("expected the company inbox to hold both applications, got %d", len(inbox))
	}

	_, err = f.service.List(context.Background(), freelancerID, ListApplicationsInput{Status: "archived"})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestApplicationServiceUpdateStatus_Lifecycle(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	updated, err := f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "reviewing"})
	if err != nil {
		t.Fatalf("expected pending -> reviewing, got %v", err)
	}
	if updated.Status != application.StatusReviewing {
		t.Fatalf("expected status reviewing, got %s", updated.Status)
	}

	// Non-terminal statuses move freely, including backwards.
	if _, err := f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "shortlisted"}); err != nil {
		t.Fatalf("expected reviewing -> shortlisted, got %v", err)
	}
	if _, err := f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "reviewing"}); err != nil {
		t.Fatalf("expected shortlisted -> reviewing, got %v", err)
	}

	if _, err := f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "ghosted"}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	if _, err := f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "rejected"}); err != nil {
		t.Fatalf("expected rejection to succeed, got %v", err)
	}
	_, err = f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "reviewing"})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected terminal status to be final, got %v", err)
	}
}

func TestApplicationServiceUpdateStatus_Authorization(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	otherCompanyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	_, err = f.service.UpdateStatus(context.Background(), freelancerID, created.ID, UpdateStatusInput{Status: "reviewing"})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for freelancer actor, got %v", err)
	}
	_, err = f.service.UpdateStatus(context.Background(), otherCompanyID, created.ID, UpdateStatusInput{Status: "reviewing"})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for the wrong company, got %v", err)
	}
}

func TestApplicationServiceUpdateStatus_Acceptance(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	_, err = f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{Status: "accepted"})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error without acceptance details, got %v", err)
	}
	_, err = f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{
		Status:     "accepted",
		Acceptance: &AcceptancePayload{Email: "hiring@initech.test"},
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error without a message, got %v", err)
	}

	accepted, err := f.service.UpdateStatus(context.Background(), companyID, created.ID, UpdateStatusInput{
		Status:     "accepted",
		Acceptance: &AcceptancePayload{Email: "hiring@initech.test", Phone: "+1555", Message: "Welcome aboard"},
	})
	if err != nil {
		t.Fatalf("expected acceptance to succeed, got %v", err)
	}
	if accepted.Status != application.StatusAccepted {
		t.Fatalf("expected status accepted, got %s", accepted.Status)
	}
	if accepted.Acceptance == nil {
		t.Fatal("expected acceptance details to be persisted")
	}
	if accepted.Acceptance.Email != "hiring@initech.test" || accepted.Acceptance.Message != "Welcome aboard" {
		t.Fatalf("expected contact payload persisted, got %+v", accepted.Acceptance)
	}
	if accepted.Acceptance.AcceptedAt.IsZero() {
		t.Fatal("expected accepted_at to be stamped")
	}
}

func TestApplicationServiceUpdate_NotesAndMessage(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), companyID, created.ID, UpdateApplicationInput{
		Status:       "reviewing",
		CompanyNotes: "strong portfolio",
		Message:      "Can you share availability?",
	})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if updated.CompanyNotes != "strong portfolio" {
		t.Fatalf("expected company notes persisted, got %q", updated.CompanyNotes)
	}
	thread, err := f.messages.ListByApplication(context.Background(), created.ID, 10, 0)
	if err != nil {
		t.Fatalf("expected thread, got %v", err)
	}
	if len(thread) != 1 || thread[0].Body != "Can you share availability?" {
		t.Fatalf("expected one thread message, got %d", len(thread))
	}
	stored, err := f.apps.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected application to exist, got %v", err)
	}
	if stored.Status != application.StatusReviewing {
		t.Fatalf("expected status reviewing after combined update, got %s", stored.Status)
	}
}

func TestApplicationServiceWithdraw(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	otherID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}

	if err := f.service.Withdraw(context.Background(), otherID, created.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for another freelancer, got %v", err)
	}
	if err := f.service.Withdraw(context.Background(), companyID, created.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for company actor, got %v", err)
	}

	if err := f.service.Withdraw(context.Background(), freelancerID, created.ID); err != nil {
		t.Fatalf("expected pending withdrawal to succeed, got %v", err)
	}
	if _, err := f.apps.GetByID(context.Background(), created.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected application to be deleted, got %v", err)
	}
}

func TestApplicationServiceWithdraw_StageGate(t *testing.T) {
	f := newApplicationFixture()
	freelancerID := f.seedFreelancer(t)
	companyID := f.seedCompany(t)
	posting := f.seedOpenJob(t, companyID)

	created, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("expected application created, got %v", err)
	}
	if _, err := f.apps.UpdateStatus(context.Background(), created.ID, application.StatusReviewing, nil); err != nil {
		t.Fatalf("expected status update, got %v", err)
	}
	// Reviewing is still withdrawable; shortlisted and beyond is not.
	if err := f.service.Withdraw(context.Background(), freelancerID, created.ID); err != nil {
		t.Fatalf("expected reviewing withdrawal to succeed, got %v", err)
	}

	second, err := f.service.Create(context.Background(), freelancerID, CreateApplicationInput{JobID: posting.ID.String(), CoverLetter: "again"})
	if err != nil {
		t.Fatalf("expected re-application after withdrawal, got %v", err)
	}
	if _, err := f.apps.UpdateStatus(context.Background(), second.ID, application.StatusShortlisted, nil); err != nil {
		t.Fatalf("expected status update, got %v", err)
	}
	if err := f.service.Withdraw(context.Background(), freelancerID, second.ID); !common.Is(err, common.CodeInvalidStage) {
		t.Fatalf("expected invalid_stage for shortlisted application, got %v", err)
	}
}
