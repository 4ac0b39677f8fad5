package handlers

import (
	"net/http"
	"strconv"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/services"
)

type AuditHandler struct {
	audit services.AuditService
}

func NewAuditHandler(audit services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.audit.ListEvents(r.Context(), middleware.GetActor(r.Context()), &services.AuditFilters{
		Verb:  r.URL.Query().Get("verb"),
		Limit: limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	ev, err := h.audit.GetEvent(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: ev})
}
