package app

import (
	"context"
	"strings"

	"gigboard/internal/common"
	"gigboard/internal/domain/analytics"
	"gigboard/internal/domain/application"
	"gigboard/internal/domain/message"
	"gigboard/internal/domain/user"
)

type MessageService struct {
	repo         message.Repository
	applications application.Repository
	users        user.Repository
	analytics    analytics.Repository
}

func NewMessageService(repo message.Repository, applications application.Repository, users user.Repository, analytics analytics.Repository) *MessageService {
	return &MessageService{repo: repo, applications: applications, users: users, analytics: analytics}
}

// Send appends a message to the application thread. Only the two parties may
// write; the sender label is derived from which side the actor is on.
func (s *MessageService) Send(ctx context.Context, applicationID, actorID common.UUID, body string) (*message.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"body": "body is required"})
	}
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	var sender message.Sender
	switch actorID {
	case app.FreelancerID:
		sender = message.SenderFreelancer
	case app.CompanyID:
		sender = message.SenderCompany
	default:
		return nil, common.NewError(common.CodeAccessDenied, "not a party to this application", nil)
	}
	created, err := s.repo.Create(ctx, message.Message{ApplicationID: applicationID, Sender: sender, Body: body})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.message_sent", UserID: &actorID, Payload: analyticsPayload(ctx, map[string]string{"application_id": applicationID.String(), "sender": string(sender)})})
	return created, nil
}

func (s *MessageService) List(ctx context.Context, applicationID, actorID common.UUID, limit, offset int) ([]message.Message, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if actorID != app.FreelancerID && actorID != app.CompanyID {
		actor, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if actor.Role != user.RoleAdmin {
			return nil, common.NewError(common.CodeAccessDenied, "not a party to this application", nil)
		}
	}
	return s.repo.ListByApplication(ctx, applicationID, limit, offset)
}
