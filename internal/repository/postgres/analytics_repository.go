package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"gigboard/internal/common"
	"gigboard/internal/domain/analytics"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Create(ctx context.Context, event analytics.Event) error {
	event.ID = common.NewUUID()
	event.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode event payload", err)
	}
	var userID interface{}
	if event.UserID != nil {
		userID = *event.UserID
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO analytics_events (id, name, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Name, userID, payload, event.CreatedAt); err != nil {
		return common.NewError(common.CodeInternal, "failed to create event", err)
	}
	return nil
}
