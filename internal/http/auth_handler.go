package httpapi

import (
	"net/http"

	"brandgate/internal/repository"
	"brandgate/internal/service"

	"go.uber.org/zap"
)

// AuthHandler admin authentication endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	grants   repository.GrantsRepository
	pipeline *Pipeline
	logger   *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, grants repository.GrantsRepository, pipeline *Pipeline, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		grants:   grants,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Login POST /auth/api/v1/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	resp, err := h.auth.AdminLogin(r.Context(), service.AdminLoginRequest{
		Email:     body.Email,
		Password:  body.Password,
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Logout POST /auth/api/v1/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.auth.AdminLogout(r.Context(), BearerToken(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"loggedOut": true}))
}

// Me GET /auth/api/v1/admin/me — principal plus per-tenant grants. The role
// list comes from admin_user_tenants; there is no global role to report.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.AdminOnly(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := GetPrincipal(r.Context())

		grants, err := h.grants.ListGrantsByUser(r.Context(), principal.UserID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, Ok(map[string]any{
			"userId": principal.UserID,
			"email":  principal.Email,
			"name":   principal.Name,
			"grants": grants,
		}))
	})(w, r)
}
