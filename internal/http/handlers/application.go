package handlers

import (
	"net/http"
	"time"

	"gigboard/internal/app"
	"gigboard/internal/common"
	"gigboard/internal/http/middleware"
	"gigboard/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

type createApplicationRequest struct {
	JobID             string   `json:"job_id,omitempty"`
	CompanyID         string   `json:"company_id,omitempty"`
	CoverLetter       string   `json:"cover_letter"`
	ProposedRate      *float64 `json:"proposed_rate,omitempty"`
	EstimatedDuration string   `json:"estimated_duration,omitempty"`
	Portfolio         []string `json:"portfolio,omitempty"`
	Resume            string   `json:"resume,omitempty"`
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + actorID.String()
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Create(r.Context(), actorID, app.CreateApplicationInput{
		JobID:             req.JobID,
		CompanyID:         req.CompanyID,
		CoverLetter:       req.CoverLetter,
		ProposedRate:      req.ProposedRate,
		EstimatedDuration: req.EstimatedDuration,
		Portfolio:         req.Portfolio,
		Resume:            req.Resume,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), actorID, applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.applications.List(r.Context(), actorID, app.ListApplicationsInput{
		Status: r.URL.Query().Get("status"),
		JobID:  r.URL.Query().Get("job_id"),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type updateApplicationRequest struct {
	Status       string `json:"status,omitempty"`
	CompanyNotes string `json:"company_notes,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Update is the company review endpoint: status, private notes, and an
// optional thread message in one call.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Update(r.Context(), actorID, applicationID, app.UpdateApplicationInput{
		Status:       req.Status,
		CompanyNotes: req.CompanyNotes,
		Message:      req.Message,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type acceptanceRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

type updateStatusRequest struct {
	Status            string             `json:"status"`
	AcceptanceDetails *acceptanceRequest `json:"acceptance_details,omitempty"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewValidationError("status is required", map[string]string{"status": "status is required"}))
		return
	}
	input := app.UpdateStatusInput{Status: req.Status}
	if req.AcceptanceDetails != nil {
		input.Acceptance = &app.AcceptancePayload{
			Email:   req.AcceptanceDetails.Email,
			Phone:   req.AcceptanceDetails.Phone,
			Message: req.AcceptanceDetails.Message,
		}
	}
	updated, err := h.applications.UpdateStatus(r.Context(), actorID, applicationID, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Withdraw(r.Context(), actorID, applicationID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}
