package handlers

import (
	"net/http"

	"gigboard/internal/app"
	"gigboard/internal/http/middleware"
	"gigboard/internal/http/response"
)

type UserHandler struct {
	users *app.UserService
}

func NewUserHandler(users *app.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	account, err := h.users.Get(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

type onboardingRequest struct {
	Role        string   `json:"role,omitempty"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name"`
	CompanyName string   `json:"company_name,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Bio         string   `json:"bio,omitempty"`
}

// CompleteOnboarding is keyed by the auth subject rather than the user id so
// it can provision the account on first contact.
func (h *UserHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	authID, ok := middleware.AuthIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req onboardingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.users.CompleteOnboarding(r.Context(), authID, app.OnboardingInput{
		Role:        req.Role,
		Email:       req.Email,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Skills:      req.Skills,
		Bio:         req.Bio,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
