package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"gigboard/internal/common"
	"gigboard/internal/domain/job"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, company_id, company_name, title, description, skills, salary, location,
	job_type, category, status, applications_count, created_at, updated_at`

func (r *JobRepository) Create(ctx context.Context, posting job.Job) (*job.Job, error) {
	posting.ID = common.NewUUID()
	now := time.Now().UTC()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, company_id, company_name, title, description, skills, salary, location, job_type, category, status, applications_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		posting.ID, posting.CompanyID, posting.CompanyName, posting.Title, posting.Description,
		pq.Array(posting.Skills), posting.Salary, posting.Location, posting.Type, posting.Category,
		posting.Status, posting.ApplicationsCount, posting.CreatedAt, posting.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &posting, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	posting, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return posting, nil
}

func (r *JobRepository) List(ctx context.Context, filter job.ListFilter) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = ` + placeholder(len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += ` AND job_type = ` + placeholder(len(args))
	}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += ` AND company_id = ` + placeholder(len(args))
	}
	if len(filter.Skills) > 0 {
		args = append(args, pq.Array(filter.Skills))
		query += ` AND skills && ` + placeholder(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT ` + placeholder(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET ` + placeholder(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	defer rows.Close()
	var items []job.Job
	for rows.Next() {
		posting, err := scanJob(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, *posting)
	}
	return items, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id common.UUID, status job.Status) (*job.Job, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

func (r *JobRepository) IncrementApplicationsCount(ctx context.Context, id common.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE jobs SET applications_count = applications_count + 1, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to increment applications count", err)
	}
	return nil
}

func (r *JobRepository) CountByCompany(ctx context.Context, companyID common.UUID, status *job.Status) (int, error) {
	query := `SELECT COUNT(*) FROM jobs WHERE company_id = $1`
	args := []interface{}{companyID}
	if status != nil {
		args = append(args, *status)
		query += ` AND status = ` + placeholder(len(args))
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count jobs", err)
	}
	return count, nil
}

func (r *JobRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count jobs", err)
	}
	return count, nil
}

func scanJob(row rowScanner) (*job.Job, error) {
	var posting job.Job
	if err := row.Scan(&posting.ID, &posting.CompanyID, &posting.CompanyName, &posting.Title, &posting.Description,
		pq.Array(&posting.Skills), &posting.Salary, &posting.Location, &posting.Type, &posting.Category,
		&posting.Status, &posting.ApplicationsCount, &posting.CreatedAt, &posting.UpdatedAt); err != nil {
		return nil, err
	}
	return &posting, nil
}
