package app

import (
	"context"
	"sync"
	"time"

	"gigboard/internal/common"
	"gigboard/internal/domain/analytics"
	"gigboard/internal/domain/application"
	"gigboard/internal/domain/job"
	"gigboard/internal/domain/message"
	"gigboard/internal/domain/user"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[common.UUID]*user.User)}
}

func (r *fakeUserRepo) add(account user.User) common.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		account.ID = common.NewUUID()
	}
	clone := account
	r.byID[account.ID] = &clone
	return account.ID
}

func (r *fakeUserRepo) Create(_ context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if account.AuthID != "" && existing.AuthID == account.AuthID {
			return nil, common.NewError(common.CodeConflict, "account already exists", nil)
		}
	}
	if account.ID == "" {
		account.ID = common.NewUUID()
	}
	clone := account
	r.byID[account.ID] = &clone
	return &account, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	clone := *account
	return &clone, nil
}

func (r *fakeUserRepo) FindByAuthID(_ context.Context, authID string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.byID {
		if account.AuthID == authID {
			clone := *account
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (r *fakeUserRepo) CompleteOnboarding(ctx context.Context, id common.UUID, update user.OnboardingUpdate) (*user.User, error) {
	r.mu.Lock()
	account, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	account.Name = update.Name
	account.CompanyName = update.CompanyName
	account.Skills = update.Skills
	account.Bio = update.Bio
	account.OnboardingCompleted = true
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[common.UUID]*job.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, posting job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if posting.ID == "" {
		posting.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	clone := posting
	r.byID[posting.ID] = &clone
	return &posting, nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	clone := *posting
	return &clone, nil
}

func (r *fakeJobRepo) List(_ context.Context, filter job.ListFilter) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.byID {
		if filter.Status != nil && posting.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && posting.Type != *filter.Type {
			continue
		}
		if filter.CompanyID != nil && posting.CompanyID != *filter.CompanyID {
			continue
		}
		items = append(items, *posting)
	}
	return items, nil
}

func (r *fakeJobRepo) UpdateStatus(ctx context.Context, id common.UUID, status job.Status) (*job.Job, error) {
	r.mu.Lock()
	posting, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	posting.Status = status
	posting.UpdatedAt = time.Now().UTC()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeJobRepo) IncrementApplicationsCount(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.byID[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	posting.ApplicationsCount++
	return nil
}

func (r *fakeJobRepo) CountByCompany(_ context.Context, companyID common.UUID, status *job.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, posting := range r.byID {
		if posting.CompanyID != companyID {
			continue
		}
		if status != nil && posting.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeJobRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

// fakeApplicationRepo mirrors the storage-layer duplicate guards: Create
// enforces uniqueness of (job, freelancer) for job applications and of one
// pending inquiry per (company, freelancer) under a lock, exactly like the
// partial unique indexes do in postgres.
type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.Kind == application.KindJobApplication {
		for _, existing := range r.byID {
			if existing.Kind == application.KindJobApplication && existing.JobID != nil && app.JobID != nil &&
				*existing.JobID == *app.JobID && existing.FreelancerID == app.FreelancerID {
				return nil, common.NewError(common.CodeDuplicateApplication, "already applied to this job", nil)
			}
		}
	}
	if app.Kind == application.KindSpontaneous && app.Status == application.StatusPending {
		for _, existing := range r.byID {
			if existing.Kind == application.KindSpontaneous && existing.Status == application.StatusPending &&
				existing.CompanyID == app.CompanyID && existing.FreelancerID == app.FreelancerID {
				return nil, common.NewError(common.CodeDuplicateInquiry, "a pending inquiry with this company already exists", nil)
			}
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	clone := app
	r.byID[app.ID] = &clone
	return &app, nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) FindByJobAndFreelancer(_ context.Context, jobID, freelancerID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.byID {
		if app.Kind == application.KindJobApplication && app.JobID != nil && *app.JobID == jobID && app.FreelancerID == freelancerID {
			clone := *app
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) FindPendingInquiry(_ context.Context, companyID, freelancerID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.byID {
		if app.Kind == application.KindSpontaneous && app.CompanyID == companyID && app.FreelancerID == freelancerID && app.Status == application.StatusPending {
			clone := *app
			return &clone, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) List(_ context.Context, filter application.ListFilter) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if matchesFilter(app, filter) {
			items = append(items, *app)
		}
	}
	return items, nil
}

func matchesFilter(app *application.Application, filter application.ListFilter) bool {
	if filter.FreelancerID != nil && app.FreelancerID != *filter.FreelancerID {
		return false
	}
	if filter.CompanyID != nil && app.CompanyID != *filter.CompanyID {
		return false
	}
	if filter.JobID != nil && (app.JobID == nil || *app.JobID != *filter.JobID) {
		return false
	}
	if filter.Status != nil && app.Status != *filter.Status {
		return false
	}
	return true
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, acceptance *application.AcceptanceDetails) (*application.Application, error) {
	r.mu.Lock()
	app, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	if acceptance != nil {
		clone := *acceptance
		app.Acceptance = &clone
	}
	app.UpdatedAt = time.Now().UTC()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeApplicationRepo) UpdateNotes(ctx context.Context, id common.UUID, notes string) (*application.Application, error) {
	r.mu.Lock()
	app, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.CompanyNotes = notes
	app.UpdatedAt = time.Now().UTC()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeApplicationRepo) Count(_ context.Context, filter application.ListFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, app := range r.byID {
		if matchesFilter(app, filter) {
			count++
		}
	}
	return count, nil
}

type fakeMessageRepo struct {
	mu    sync.Mutex
	items []message.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg message.Message) (*message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = common.NewUUID()
	msg.CreatedAt = time.Now().UTC()
	r.items = append(r.items, msg)
	return &msg, nil
}

func (r *fakeMessageRepo) ListByApplication(_ context.Context, applicationID common.UUID, limit, offset int) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []message.Message
	for _, msg := range r.items {
		if msg.ApplicationID == applicationID {
			items = append(items, msg)
		}
	}
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

type fakeAnalyticsRepo struct {
	mu     sync.Mutex
	events []analytics.Event
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{}
}

func (r *fakeAnalyticsRepo) Create(_ context.Context, event analytics.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeAnalyticsRepo) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, event := range r.events {
		names = append(names, event.Name)
	}
	return names
}
