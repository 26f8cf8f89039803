package analytics

import (
	"context"
	"time"

	"gigboard/internal/common"
)

// Event is a fire-and-forget audit record; writes are best effort and never
// fail the triggering operation.
type Event struct {
	ID        common.UUID
	Name      string
	UserID    *common.UUID
	Payload   map[string]string
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, event Event) error
}
