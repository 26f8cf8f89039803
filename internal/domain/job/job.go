package job

import (
	"time"

	"gigboard/internal/common"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusFilled Status = "filled"
)

type Type string

const (
	TypeFullTime   Type = "full-time"
	TypePartTime   Type = "part-time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"
)

type Job struct {
	ID        common.UUID `json:"id"`
	CompanyID common.UUID `json:"company_id"`
	// CompanyName is a write-time snapshot of the posting company's name; it may
	// drift from the user record and is never synced back.
	CompanyName       string    `json:"company_name"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Skills            []string  `json:"skills"`
	Salary            string    `json:"salary,omitempty"`
	Location          string    `json:"location"`
	Type              Type      `json:"type"`
	Category          string    `json:"category"`
	Status            Status    `json:"status"`
	ApplicationsCount int       `json:"applications_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
