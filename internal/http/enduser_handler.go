package httpapi

import (
	"net/http"

	"brandgate/internal/service"

	"go.uber.org/zap"
)

// EnduserHandler visitor-facing auth endpoints. Every route is scoped to the
// tenant resolved from the Host header; the body never names a tenant.
type EnduserHandler struct {
	auth     *service.AuthService
	pipeline *Pipeline
	logger   *zap.Logger
}

func NewEnduserHandler(auth *service.AuthService, pipeline *Pipeline, logger *zap.Logger) *EnduserHandler {
	return &EnduserHandler{
		auth:     auth,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Signup POST /auth/api/v1/signup
func (h *EnduserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.Public(func(w http.ResponseWriter, r *http.Request) {
		tenant, _ := GetTenant(r.Context())

		var body struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := readBodyJSON(r, 1<<20, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}

		resp, err := h.auth.EnduserSignup(r.Context(), service.EnduserSignupRequest{
			Tenant:    tenant,
			Email:     body.Email,
			Name:      body.Name,
			Password:  body.Password,
			IPAddress: getClientIP(r),
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))
	})(w, r)
}

// VerifyEmail GET /auth/api/v1/verify-email?token=...
func (h *EnduserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, Fail("token required"))
		return
	}
	if err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"verified": true}))
}

// Login POST /auth/api/v1/login
func (h *EnduserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.Public(func(w http.ResponseWriter, r *http.Request) {
		tenant, _ := GetTenant(r.Context())

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := readBodyJSON(r, 1<<20, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}

		resp, err := h.auth.EnduserLogin(r.Context(), service.EnduserLoginRequest{
			Tenant:    tenant,
			Email:     body.Email,
			Password:  body.Password,
			IPAddress: getClientIP(r),
		})
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))
	})(w, r)
}

// Logout POST /auth/api/v1/logout
func (h *EnduserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.auth.EnduserLogout(r.Context(), BearerToken(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"loggedOut": true}))
}

// Me GET /auth/api/v1/me
func (h *EnduserHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.Enduser(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := GetPrincipal(r.Context())
		writeJSON(w, http.StatusOK, Ok(map[string]any{
			"enduserId": principal.UserID,
			"tenantId":  principal.TenantID,
			"email":     principal.Email,
			"name":      principal.Name,
		}))
	})(w, r)
}
