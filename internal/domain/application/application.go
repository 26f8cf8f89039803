package application

import (
	"time"

	"gigboard/internal/common"
)

type Kind string

const (
	KindJobApplication Kind = "job_application"
	KindSpontaneous    Kind = "spontaneous"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewing   Status = "reviewing"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusAccepted    Status = "accepted"
)

// IsKnown reports whether s is one of the five recognized statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusShortlisted, StatusRejected, StatusAccepted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition is defined out of s.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// AcceptanceDetails is the contact payload persisted on transition into
// accepted. It is present if and only if the application is accepted.
type AcceptanceDetails struct {
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	AcceptedAt time.Time `json:"accepted_at"`
}

type Application struct {
	ID   common.UUID `json:"id"`
	Kind Kind        `json:"kind"`
	// JobID is set exactly when Kind is KindJobApplication.
	JobID        *common.UUID `json:"job_id,omitempty"`
	FreelancerID common.UUID  `json:"freelancer_id"`
	// CompanyID is denormalized from the job's owning company at creation time
	// for job applications; it is never re-derived afterwards.
	CompanyID         common.UUID        `json:"company_id"`
	CoverLetter       string             `json:"cover_letter"`
	ProposedRate      *float64           `json:"proposed_rate,omitempty"`
	EstimatedDuration string             `json:"estimated_duration,omitempty"`
	Portfolio         []string           `json:"portfolio,omitempty"`
	Resume            string             `json:"resume,omitempty"`
	Status            Status             `json:"status"`
	Acceptance        *AcceptanceDetails `json:"acceptance_details,omitempty"`
	CompanyNotes      string             `json:"company_notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
