package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/services"
)

type ThreadsHandler struct {
	threads services.ThreadService
}

func NewThreadsHandler(threads services.ThreadService) *ThreadsHandler {
	return &ThreadsHandler{threads: threads}
}

func (h *ThreadsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryID(r, "project")
	if err != nil {
		writeError(w, err)
		return
	}
	taskID, err := queryID(r, "task")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.threads.ListThreads(r.Context(), middleware.GetActor(r.Context()), &services.ThreadFilters{
		ProjectID: projectID,
		TaskID:    taskID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *ThreadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Kind      string `json:"kind"`
		ProjectID *uint  `json:"project_id"`
		TaskID    *uint  `json:"task_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	th, err := h.threads.CreateThread(r.Context(), middleware.GetActor(r.Context()), &services.CreateThreadInput{
		Title:     req.Title,
		Kind:      models.ThreadKind(req.Kind),
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: th})
}

func (h *ThreadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	th, err := h.threads.GetThread(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: th})
}

func (h *ThreadsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Title *string `json:"title"`
		Kind  *string `json:"kind"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := &services.UpdateThreadInput{Title: req.Title}
	if req.Kind != nil {
		k := models.ThreadKind(*req.Kind)
		patch.Kind = &k
	}
	th, err := h.threads.UpdateThread(r.Context(), middleware.GetActor(r.Context()), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: th})
}

func (h *ThreadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.threads.DeleteThread(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
