package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"gigboard/internal/common"
	"gigboard/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, auth_id, email, name, role, onboarding_completed, company_name, skills, bio, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, account user.User) (*user.User, error) {
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, auth_id, email, name, role, onboarding_completed, company_name, skills, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		account.ID, account.AuthID, account.Email, account.Name, account.Role, account.OnboardingCompleted,
		account.CompanyName, pq.Array(account.Skills), account.Bio, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.NewError(common.CodeConflict, "account already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &account, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanOne(row)
}

func (r *UserRepository) FindByAuthID(ctx context.Context, authID string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = $1`, authID)
	return r.scanOne(row)
}

func (r *UserRepository) CompleteOnboarding(ctx context.Context, id common.UUID, update user.OnboardingUpdate) (*user.User, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET name = $1, company_name = $2, skills = $3, bio = $4, onboarding_completed = TRUE, updated_at = $5 WHERE id = $6`,
		update.Name, update.CompanyName, pq.Array(update.Skills), update.Bio, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update user", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count users", err)
	}
	return count, nil
}

func (r *UserRepository) scanOne(row rowScanner) (*user.User, error) {
	var account user.User
	if err := row.Scan(&account.ID, &account.AuthID, &account.Email, &account.Name, &account.Role,
		&account.OnboardingCompleted, &account.CompanyName, pq.Array(&account.Skills), &account.Bio,
		&account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &account, nil
}
