package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/services"
)

type ProjectsHandler struct {
	projects services.ProjectService
}

func NewProjectsHandler(projects services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	filters := &services.ProjectFilters{
		IncludeArchived: r.URL.Query().Get("include_archived") == "true",
	}
	items, err := h.projects.ListProjects(r.Context(), actor, filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	actor := middleware.GetActor(r.Context())
	p, err := h.projects.CreateProject(r.Context(), actor, &services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: p})
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.projects.GetProject(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: p})
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsArchived  *bool   `json:"is_archived"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.projects.UpdateProject(r.Context(), middleware.GetActor(r.Context()), id, &services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		IsArchived:  req.IsArchived,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: p})
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.projects.DeleteProject(r.Context(), middleware.GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
