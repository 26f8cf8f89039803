package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations run in order on startup; every statement must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		auth_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
		company_name TEXT NOT NULL DEFAULT '',
		skills TEXT[] NOT NULL DEFAULT '{}',
		bio TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES users(id),
		company_name TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		skills TEXT[] NOT NULL DEFAULT '{}',
		salary TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		job_type TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		applications_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_status_created_idx ON jobs (status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS jobs_company_idx ON jobs (company_id)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		job_id UUID REFERENCES jobs(id),
		freelancer_id UUID NOT NULL REFERENCES users(id),
		company_id UUID NOT NULL REFERENCES users(id),
		cover_letter TEXT NOT NULL,
		proposed_rate NUMERIC,
		estimated_duration TEXT NOT NULL DEFAULT '',
		portfolio TEXT[] NOT NULL DEFAULT '{}',
		resume TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		acceptance_email TEXT,
		acceptance_phone TEXT,
		acceptance_message TEXT,
		accepted_at TIMESTAMPTZ,
		company_notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	// Authoritative duplicate guard: two concurrent submissions for the same
	// (job, freelancer) pair must never both succeed. The service pre-check only
	// produces a friendlier message in the common case.
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_job_freelancer_key
		ON applications (job_id, freelancer_id) WHERE kind = 'job_application'`,
	// Same guard for inquiries: at most one pending spontaneous inquiry per
	// (company, freelancer). Processed inquiries fall out of the index and stop
	// blocking a new one.
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_pending_inquiry_key
		ON applications (company_id, freelancer_id) WHERE kind = 'spontaneous' AND status = 'pending'`,
	`CREATE INDEX IF NOT EXISTS applications_company_status_idx ON applications (company_id, status)`,
	`CREATE INDEX IF NOT EXISTS applications_freelancer_status_idx ON applications (freelancer_id, status)`,
	`CREATE TABLE IF NOT EXISTS application_messages (
		id UUID PRIMARY KEY,
		application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
		sender TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS application_messages_application_idx ON application_messages (application_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		user_id UUID,
		payload JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
