package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/services"
)

type AssignmentsHandler struct {
	assignments services.AssignmentService
}

func NewAssignmentsHandler(assignments services.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

func (h *AssignmentsHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.assignments.ListAssignments(r.Context(), middleware.GetActor(r.Context()), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *AssignmentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		AssigneeID uint   `json:"assignee_id"`
		Role       string `json:"role"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := h.assignments.AddAssignment(r.Context(), middleware.GetActor(r.Context()), &services.AddAssignmentInput{
		TaskID:     taskID,
		AssigneeID: req.AssigneeID,
		Role:       models.AssignmentRole(req.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: a})
}

func (h *AssignmentsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.assignments.RemoveAssignment(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
