package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/middleware"
	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/services"
)

type MembershipsHandler struct {
	memberships services.MembershipService
}

func NewMembershipsHandler(memberships services.MembershipService) *MembershipsHandler {
	return &MembershipsHandler{memberships: memberships}
}

func (h *MembershipsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.memberships.ListMembers(r.Context(), middleware.GetActor(r.Context()), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *MembershipsHandler) Add(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.memberships.AddMember(r.Context(), middleware.GetActor(r.Context()), &services.AddMemberInput{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      authz.Role(req.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: m})
}

func (h *MembershipsHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	membershipID, err := pathID(r, "membershipID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.memberships.UpdateMember(r.Context(), middleware.GetActor(r.Context()), projectID, membershipID, authz.Role(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: m})
}

func (h *MembershipsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	membershipID, err := pathID(r, "membershipID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.memberships.RemoveMember(r.Context(), middleware.GetActor(r.Context()), projectID, membershipID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
