package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gigboard/internal/app"
	"gigboard/internal/http/middleware"
	"gigboard/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type createJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Salary      string   `json:"salary,omitempty"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), actorID, app.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Salary:      req.Salary,
		Location:    req.Location,
		Type:        req.Type,
		Category:    req.Category,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	input := app.ListJobsInput{
		Status:    query.Get("status"),
		Type:      query.Get("type"),
		CompanyID: query.Get("company"),
	}
	if skills := strings.TrimSpace(query.Get("skills")); skills != "" {
		input.Skills = strings.Split(skills, ",")
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		input.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil {
		input.Offset = offset
	}
	if query.Get("scope") == "mine" {
		actorID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			response.Error(w, errUnauthorized())
			return
		}
		input.Mine = true
		input.ActorID = actorID
	}
	items, err := h.jobs.List(r.Context(), input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type updateJobStatusRequest struct {
	Status string `json:"status"`
}

func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateJobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.jobs.UpdateStatus(r.Context(), actorID, jobID, req.Status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
