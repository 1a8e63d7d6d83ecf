package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"brandgate/internal/domain"
	"brandgate/internal/repository"
	"brandgate/internal/service"

	"go.uber.org/zap"
)

// AdminUsersHandler platform-level admin user and grant management.
type AdminUsersHandler struct {
	admins   repository.AdminsRepository
	grants   repository.GrantsRepository
	pipeline *Pipeline
	logger   *zap.Logger
}

func NewAdminUsersHandler(admins repository.AdminsRepository, grants repository.GrantsRepository, pipeline *Pipeline, logger *zap.Logger) *AdminUsersHandler {
	return &AdminUsersHandler{
		admins:   admins,
		grants:   grants,
		pipeline: pipeline,
		logger:   logger,
	}
}

// ServeHTTP dispatches:
//
//	GET    /admin/api/v1/users
//	POST   /admin/api/v1/users
//	PUT    /admin/api/v1/users/{id}/status
//	GET    /admin/api/v1/users/{id}/grants
//	PUT    /admin/api/v1/users/{id}/grants
//	DELETE /admin/api/v1/users/{id}/grants/{tenantId}
func (h *AdminUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.pipeline.Platform(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/users")
		rest = strings.Trim(rest, "/")

		if rest == "" {
			switch r.Method {
			case http.MethodGet:
				h.list(w, r)
			case http.MethodPost:
				h.create(w, r)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
			return
		}

		parts := strings.Split(rest, "/")
		userID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid user id"))
			return
		}

		switch {
		case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPut:
			h.setStatus(w, r, userID)
		case len(parts) == 2 && parts[1] == "grants" && r.Method == http.MethodGet:
			h.listGrants(w, r, userID)
		case len(parts) == 2 && parts[1] == "grants" && r.Method == http.MethodPut:
			h.upsertGrant(w, r, userID)
		case len(parts) == 3 && parts[1] == "grants" && r.Method == http.MethodDelete:
			h.deleteGrant(w, r, userID, parts[2])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

func (h *AdminUsersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)
	if size > 100 {
		size = 100
	}

	users, total, err := h.admins.ListAdmins(r.Context(), page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": users,
		"total": total,
		"page":  page,
		"size":  size,
	}))
}

func (h *AdminUsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || !strings.Contains(email, "@") || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, Fail("email and password are required"))
		return
	}

	hash, err := service.HashPassword(body.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.admins.CreateAdmin(r.Context(), &domain.AdminUser{
		Email:        email,
		Name:         strings.TrimSpace(body.Name),
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Admin user created", zap.Int64("user_id", id))
	writeJSON(w, http.StatusOK, Ok(map[string]any{"userId": id}))
}

func (h *AdminUsersHandler) setStatus(w http.ResponseWriter, r *http.Request, userID int64) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if err := h.admins.SetAdminActive(r.Context(), userID, body.Active); err != nil {
		if err == repository.ErrNotFound {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Admin user status changed",
		zap.Int64("user_id", userID),
		zap.Bool("active", body.Active),
	)
	writeJSON(w, http.StatusOK, Ok(map[string]any{"userId": userID, "active": body.Active}))
}

func (h *AdminUsersHandler) listGrants(w http.ResponseWriter, r *http.Request, userID int64) {
	grants, err := h.grants.ListGrantsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": grants}))
}

func (h *AdminUsersHandler) upsertGrant(w http.ResponseWriter, r *http.Request, userID int64) {
	var body struct {
		TenantID int64  `json:"tenantId"`
		Role     string `json:"role"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	role := domain.Role(body.Role)
	if body.TenantID == 0 || !role.Valid() {
		writeJSON(w, http.StatusBadRequest, Fail("tenantId and a valid role are required"))
		return
	}

	g := &domain.Grant{UserID: userID, TenantID: body.TenantID, Role: role}
	if err := h.grants.UpsertGrant(r.Context(), g); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Grant upserted",
		zap.Int64("user_id", userID),
		zap.Int64("tenant_id", body.TenantID),
		zap.String("role", string(role)),
	)
	writeJSON(w, http.StatusOK, Ok(g))
}

func (h *AdminUsersHandler) deleteGrant(w http.ResponseWriter, r *http.Request, userID int64, rawTenantID string) {
	tenantID, err := strconv.ParseInt(rawTenantID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid tenant id"))
		return
	}

	if err := h.grants.DeleteGrant(r.Context(), userID, tenantID); err != nil {
		if err == repository.ErrNotFound {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Grant deleted",
		zap.Int64("user_id", userID),
		zap.Int64("tenant_id", tenantID),
	)
	writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
}
