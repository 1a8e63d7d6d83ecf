package httpapi

import (
	"encoding/json"
	"net/http"

	"brandgate/internal/domain"
	"brandgate/internal/repository"
	"brandgate/internal/service"

	"go.uber.org/zap"
)

// SiteHandler the tenant-scoped site module: branding for the public frontend
// and its admin-side editor, plus the legacy ?action= dispatch endpoint.
type SiteHandler struct {
	tenants  repository.TenantsRepository
	resolver *service.TenantResolver
	pipeline *Pipeline
	logger   *zap.Logger
}

func NewSiteHandler(tenants repository.TenantsRepository, resolver *service.TenantResolver, pipeline *Pipeline, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		tenants:  tenants,
		resolver: resolver,
		pipeline: pipeline,
		logger:   logger,
	}
}

// brandingPayload is what the frontend renders from.
func brandingPayload(t *domain.Tenant) map[string]any {
	branding := t.Branding
	if len(branding) == 0 {
		branding = json.RawMessage(`{}`)
	}
	return map[string]any{
		"tenantCode":         t.Code,
		"tenantName":         t.Name,
		"branding":           branding,
		"allowEnduserLogin":  t.AllowEnduserLogin,
		"allowEnduserSignup": t.AllowEnduserSignup,
	}
}

// PublicBranding GET /api/v1/site/branding — Host-resolved, unauthenticated.
func (h *SiteHandler) PublicBranding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.Public(func(w http.ResponseWriter, r *http.Request) {
		tenant, _ := GetTenant(r.Context())
		writeJSON(w, http.StatusOK, Ok(brandingPayload(tenant)))
	})(w, r)
}

// UpdateBranding PUT /admin/api/v1/site/branding — editor or above on the
// header-resolved tenant.
func (h *SiteHandler) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.pipeline.Admin(domain.RoleEditor, func(w http.ResponseWriter, r *http.Request) {
		tenant, _ := GetTenant(r.Context())
		ac, _ := GetAuthContext(r.Context())

		var body struct {
			Branding json.RawMessage `json:"branding"`
		}
		if err := readBodyJSON(r, 1<<20, &body); err != nil || len(body.Branding) == 0 {
			writeJSON(w, http.StatusBadRequest, Fail("branding object required"))
			return
		}
		if !json.Valid(body.Branding) {
			writeJSON(w, http.StatusBadRequest, Fail("branding must be valid JSON"))
			return
		}

		if err := h.tenants.UpdateBranding(r.Context(), tenant.ID, body.Branding); err != nil {
			writeError(w, h.logger, err)
			return
		}

		h.logger.Info("Branding updated",
			zap.Int64("tenant_id", ac.TenantID),
			zap.Int64("user_id", ac.UserID),
		)
		writeJSON(w, http.StatusOK, Ok(map[string]any{"updated": true}))
	})(w, r)
}

// LegacyDispatch GET /api/v1/site?action=... — kept for already-deployed
// frontends. Resolution runs the compatibility chain (headers, then Origin
// and Referer, then the default tenant); new endpoints must not copy this.
func (h *SiteHandler) LegacyDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tenant, err := h.resolver.ResolveLegacy(r.Context(),
		r.Header.Get("X-Tenant-Id"),
		r.Header.Get("X-Tenant-Code"),
		r.Header.Get("Origin"),
		r.Header.Get("Referer"),
	)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	switch sanitizeAction(r.URL.Query().Get("action")) {
	case "get_branding", "branding":
		writeJSON(w, http.StatusOK, Ok(brandingPayload(tenant)))
	case "get_tenant", "tenant":
		writeJSON(w, http.StatusOK, Ok(map[string]any{
			"tenantId":   tenant.ID,
			"tenantCode": tenant.Code,
			"tenantName": tenant.Name,
		}))
	default:
		writeJSON(w, http.StatusBadRequest, Fail("unknown action"))
	}
}
