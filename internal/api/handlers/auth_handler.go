package handlers

import (
	"net/http"

	"github.com/collabhub/hub/internal/api/types"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Kind        string `json:"kind"`
		DisplayName string `json:"display_name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.auth.Register(r.Context(), &services.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Kind:        models.ProfileKind(req.Kind),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: u})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorStr(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int(services.TokenTTL.Seconds()),
			"user":         u,
		},
	})
}

// Logout is stateless: tokens expire on their own, the endpoint exists for
// client symmetry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, u, err := h.auth.Refresh(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int(services.TokenTTL.Seconds()),
			"user":         u,
		},
	})
}
