package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/services"
)

type WebhooksHandler struct {
	webhooks services.WebhookService
}

func NewWebhooksHandler(webhooks services.WebhookService) *WebhooksHandler {
	return &WebhooksHandler{webhooks: webhooks}
}

func (h *WebhooksHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.webhooks.ListWebhooks(r.Context(), middleware.GetActor(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *WebhooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string   `json:"name"`
		URL      string   `json:"url"`
		Secret   string   `json:"secret"`
		Events   []string `json:"events"`
		IsActive *bool    `json:"is_active"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wh, err := h.webhooks.CreateWebhook(r.Context(), middleware.GetActor(r.Context()), &services.CreateWebhookInput{
		Name:     req.Name,
		URL:      req.URL,
		Secret:   req.Secret,
		Events:   req.Events,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: wh})
}

func (h *WebhooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	wh, err := h.webhooks.GetWebhook(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: wh})
}

func (h *WebhooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Name     *string  `json:"name"`
		URL      *string  `json:"url"`
		Secret   *string  `json:"secret"`
		Events   []string `json:"events"`
		IsActive *bool    `json:"is_active"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wh, err := h.webhooks.UpdateWebhook(r.Context(), middleware.GetActor(r.Context()), id, &services.UpdateWebhookInput{
		Name:     req.Name,
		URL:      req.URL,
		Secret:   req.Secret,
		Events:   req.Events,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: wh})
}

func (h *WebhooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.webhooks.DeleteWebhook(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
