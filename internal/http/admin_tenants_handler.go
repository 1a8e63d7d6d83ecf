package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"brandgate/internal/domain"
	"brandgate/internal/repository"

	"go.uber.org/zap"
)

// TenantsHandler platform-level tenant management. Every route requires an
// admin grant on the reserved platform tenant.
type TenantsHandler struct {
	tenants  repository.TenantsRepository
	pipeline *Pipeline
	logger   *zap.Logger
}

func NewTenantsHandler(tenants repository.TenantsRepository, pipeline *Pipeline, logger *zap.Logger) *TenantsHandler {
	return &TenantsHandler{
		tenants:  tenants,
		pipeline: pipeline,
		logger:   logger,
	}
}

// ServeHTTP dispatches /admin/api/v1/tenants and /admin/api/v1/tenants/{id}[/status].
func (h *TenantsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.pipeline.Platform(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/tenants")
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
		tenantID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid tenant id"))
			return
		}

		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			h.get(w, r, tenantID)
		case len(parts) == 1 && r.Method == http.MethodPut:
			h.update(w, r, tenantID)
		case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPut:
			h.setStatus(w, r, tenantID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

func (h *TenantsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)
	if size > 100 {
		size = 100
	}

	filter := repository.TenantFilters{Search: q.Get("search")}
	if raw := q.Get("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	tenants, total, err := h.tenants.ListTenants(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": tenants,
		"total": total,
		"page":  page,
		"size":  size,
	}))
}

type tenantBody struct {
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	PrimaryDomain      string          `json:"primaryDomain"`
	AllowEnduserLogin  bool            `json:"allowEnduserLogin"`
	AllowEnduserSignup bool            `json:"allowEnduserSignup"`
	Branding           json.RawMessage `json:"branding"` // honored on create only
}

func (h *TenantsHandler) create(w http.ResponseWriter, r *http.Request) {
	var body tenantBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	body.Code = strings.ToLower(strings.TrimSpace(body.Code))
	if body.Code == "" || body.Name == "" {
		writeJSON(w, http.StatusBadRequest, Fail("code and name are required"))
		return
	}

	t := &domain.Tenant{
		Code:               body.Code,
		Name:               body.Name,
		PrimaryDomain:      strings.ToLower(strings.TrimSpace(body.PrimaryDomain)),
		IsActive:           true,
		AllowEnduserLogin:  body.AllowEnduserLogin,
		AllowEnduserSignup: body.AllowEnduserSignup,
		Branding:           body.Branding,
	}
	id, err := h.tenants.CreateTenant(r.Context(), t)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Tenant created",
		zap.Int64("tenant_id", id),
		zap.String("tenant_code", t.Code),
	)
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tenantId": id}))
}

func (h *TenantsHandler) get(w http.ResponseWriter, r *http.Request, tenantID int64) {
	t, err := h.tenants.GetTenant(r.Context(), tenantID)
	if err != nil {
		if err == repository.ErrNotFound {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(t))
}

func (h *TenantsHandler) update(w http.ResponseWriter, r *http.Request, tenantID int64) {
	existing, err := h.tenants.GetTenant(r.Context(), tenantID)
	if err != nil {
		if err == repository.ErrNotFound {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	var body tenantBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if body.Name != "" {
		existing.Name = body.Name
	}
	existing.PrimaryDomain = strings.ToLower(strings.TrimSpace(body.PrimaryDomain))
	existing.AllowEnduserLogin = body.AllowEnduserLogin
	existing.AllowEnduserSignup = body.AllowEnduserSignup

	// Branding changes go through the site module endpoint, not here.
	if err := h.tenants.UpdateTenant(r.Context(), tenantID, existing); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(existing))
}

func (h *TenantsHandler) setStatus(w http.ResponseWriter, r *http.Request, tenantID int64) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if err := h.tenants.SetTenantActive(r.Context(), tenantID, body.Active); err != nil {
		if err == repository.ErrNotFound {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Tenant status changed",
		zap.Int64("tenant_id", tenantID),
		zap.Bool("active", body.Active),
	)
	writeJSON(w, http.StatusOK, Ok(map[string]any{"tenantId": tenantID, "active": body.Active}))
}
