package handlers

import (
	"net/http"
	"time"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/services"
)

type TasksHandler struct {
	tasks services.TaskService
}

func NewTasksHandler(tasks services.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryID(r, "project")
	if err != nil {
		writeError(w, err)
		return
	}
	parentID, err := queryID(r, "parent")
	if err != nil {
		writeError(w, err)
		return
	}
	filters := &services.TaskFilters{
		ProjectID: projectID,
		ParentID:  parentID,
		Status:    models.TaskStatus(r.URL.Query().Get("status")),
	}
	items, err := h.tasks.ListTasks(r.Context(), middleware.GetActor(r.Context()), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID   uint       `json:"project_id"`
		ParentID    *uint      `json:"parent_id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    int        `json:"priority"`
		Position    uint       `json:"position"`
		DueAt       *time.Time `json:"due_at"`
		TagIDs      []uint     `json:"tag_ids"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.tasks.CreateTask(r.Context(), middleware.GetActor(r.Context()), &services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    req.Priority,
		Position:    req.Position,
		DueAt:       req.DueAt,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: t})
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := h.tasks.GetTask(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: t})
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Priority    *int       `json:"priority"`
		Position    *uint      `json:"position"`
		ParentID    *uint      `json:"parent_id"`
		ClearParent bool       `json:"clear_parent"`
		DueAt       *time.Time `json:"due_at"`
		ClearDueAt  bool       `json:"clear_due_at"`
		TagIDs      []uint     `json:"tag_ids"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := &services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Position:    req.Position,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		DueAt:       req.DueAt,
		ClearDueAt:  req.ClearDueAt,
		TagIDs:      req.TagIDs,
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		patch.Status = &st
	}
	t, err := h.tasks.UpdateTask(r.Context(), middleware.GetActor(r.Context()), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: t})
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
