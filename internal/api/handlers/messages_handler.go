package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/services"
)

type MessagesHandler struct {
	messages services.MessageService
}

func NewMessagesHandler(messages services.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	threadID, err := queryID(r, "thread")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.messages.ListMessages(r.Context(), middleware.GetActor(r.Context()), &services.MessageFilters{
		ThreadID: threadID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *MessagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThreadID    uint           `json:"thread_id"`
		Body        string         `json:"body"`
		AuthorRole  string         `json:"author_role"`
		AuthorLabel string         `json:"author_label"`
		Metadata    map[string]any `json:"metadata"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.messages.CreateMessage(r.Context(), middleware.GetActor(r.Context()), &services.CreateMessageInput{
		ThreadID:    req.ThreadID,
		Body:        req.Body,
		AuthorRole:  models.AuthorRole(req.AuthorRole),
		AuthorLabel: req.AuthorLabel,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: m})
}

func (h *MessagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.messages.GetMessage(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: m})
}

func (h *MessagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Body     *string        `json:"body"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.messages.UpdateMessage(r.Context(), middleware.GetActor(r.Context()), id, &services.UpdateMessageInput{
		Body:     req.Body,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: m})
}

func (h *MessagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.messages.DeleteMessage(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
