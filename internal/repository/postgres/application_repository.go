package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"gigboard/internal/common"
	"gigboard/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, kind, job_id, freelancer_id, company_id, cover_letter, proposed_rate,
	estimated_duration, portfolio, resume, status, acceptance_email, acceptance_phone,
	acceptance_message, accepted_at, company_notes, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	var jobID interface{}
	if app.JobID != nil {
		jobID = *app.JobID
	}
	var rate interface{}
	if app.ProposedRate != nil {
		rate = *app.ProposedRate
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, kind, job_id, freelancer_id, company_id, cover_letter, proposed_rate, estimated_duration, portfolio, resume, status, company_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		app.ID, app.Kind, jobID, app.FreelancerID, app.CompanyID, app.CoverLetter, rate,
		app.EstimatedDuration, pq.Array(app.Portfolio), app.Resume, app.Status, app.CompanyNotes,
		app.CreatedAt, app.UpdatedAt)
	if err != nil {
		// The partial unique indexes are the authoritative duplicate guards;
		// the loser of a concurrent race lands here rather than in the service
		// pre-check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "applications_pending_inquiry_key" || app.Kind == application.KindSpontaneous {
				return nil, common.NewError(common.CodeDuplicateInquiry, "a pending inquiry with this company already exists", err)
			}
			return nil, common.NewError(common.CodeDuplicateApplication, "already applied to this job", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND freelancer_id = $2 AND kind = $3`,
		jobID, freelancerID, application.KindJobApplication)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) FindPendingInquiry(ctx context.Context, companyID, freelancerID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE company_id = $1 AND freelancer_id = $2 AND kind = $3 AND status = $4`,
		companyID, freelancerID, application.KindSpontaneous, application.StatusPending)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.ListFilter) ([]application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []interface{}{}
	query, args = appendApplicationFilter(query, args, filter)
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	return items, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, acceptance *application.AcceptanceDetails) (*application.Application, error) {
	updatedAt := time.Now().UTC()
	var err error
	if acceptance != nil {
		_, err = r.db.ExecContext(ctx, `UPDATE applications SET status = $1, acceptance_email = $2, acceptance_phone = $3, acceptance_message = $4, accepted_at = $5, updated_at = $6 WHERE id = $7`,
			status, acceptance.Email, acceptance.Phone, acceptance.Message, acceptance.AcceptedAt, updatedAt, id)
	} else {
		_, err = r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, updatedAt, id)
	}
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) UpdateNotes(ctx context.Context, id common.UUID, notes string) (*application.Application, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE applications SET company_notes = $1, updated_at = $2 WHERE id = $3`, notes, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application notes", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return nil
}

func (r *ApplicationRepository) Count(ctx context.Context, filter application.ListFilter) (int, error) {
	query := `SELECT COUNT(*) FROM applications WHERE 1=1`
	args := []interface{}{}
	query, args = appendApplicationFilter(query, args, filter)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	return count, nil
}

func appendApplicationFilter(query string, args []interface{}, filter application.ListFilter) (string, []interface{}) {
	if filter.FreelancerID != nil {
		args = append(args, *filter.FreelancerID)
		query += ` AND freelancer_id = ` + placeholder(len(args))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += ` AND company_id = ` + placeholder(len(args))
	}
	if filter.JobID != nil {
		args = append(args, *filter.JobID)
		query += ` AND job_id = ` + placeholder(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = ` + placeholder(len(args))
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	var jobID sql.NullString
	var rate sql.NullFloat64
	var email, phone, msg sql.NullString
	var acceptedAt sql.NullTime
	if err := row.Scan(&app.ID, &app.Kind, &jobID, &app.FreelancerID, &app.CompanyID, &app.CoverLetter, &rate,
		&app.EstimatedDuration, pq.Array(&app.Portfolio), &app.Resume, &app.Status, &email, &phone,
		&msg, &acceptedAt, &app.CompanyNotes, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	if jobID.Valid {
		id := common.UUID(jobID.String)
		app.JobID = &id
	}
	if rate.Valid {
		value := rate.Float64
		app.ProposedRate = &value
	}
	if acceptedAt.Valid {
		app.Acceptance = &application.AcceptanceDetails{
			Email:      email.String,
			Phone:      phone.String,
			Message:    msg.String,
			AcceptedAt: acceptedAt.Time,
		}
	}
	return &app, nil
}
