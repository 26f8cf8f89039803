package message

import (
	"context"
	"time"

	"gigboard/internal/common"
)

type Sender string

const (
	SenderFreelancer Sender = "freelancer"
	SenderCompany    Sender = "company"
)

// Message is one entry in an application's ordered conversation thread.
type Message struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	Sender        Sender      `json:"sender"`
	Body          string      `json:"body"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, msg Message) (*Message, error)
	ListByApplication(ctx context.Context, applicationID common.UUID, limit, offset int) ([]Message, error)
}
