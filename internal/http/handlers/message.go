package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gigboard/internal/app"
	"gigboard/internal/common"
	"gigboard/internal/http/middleware"
	"gigboard/internal/http/response"
)

type MessageHandler struct {
	messages *app.MessageService
	limiter  middleware.Limiter
}

func NewMessageHandler(messages *app.MessageService, limiter middleware.Limiter) *MessageHandler {
	return &MessageHandler{messages: messages, limiter: limiter}
}

type messageRequest struct {
	Body string `json:"body"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
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
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "msg:" + applicationID.String() + ":" + actorID.String()
		if !h.limiter.Allow(key, 1, 2*time.Second) {
			response.Error(w, common.NewError(common.CodeRateLimited, "messages are sent too frequently", nil))
			return
		}
	}
	created, err := h.messages.Send(r.Context(), applicationID, actorID, req.Body)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
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
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	items, err := h.messages.List(r.Context(), applicationID, actorID, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
