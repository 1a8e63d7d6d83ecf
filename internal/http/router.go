package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux (no third-party routing
// dependency needed at this route count).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes admin login/logout/me.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/api/v1/admin/login", h.Login)
	r.Handle("/auth/api/v1/admin/logout", h.Logout)
	r.Handle("/auth/api/v1/admin/me", h.Me)
}

// RegisterEnduserRoutes visitor signup/login/logout/me, Host-scoped.
func (r *Router) RegisterEnduserRoutes(h *EnduserHandler) {
	r.Handle("/auth/api/v1/signup", h.Signup)
	r.Handle("/auth/api/v1/login", h.Login)
	r.Handle("/auth/api/v1/logout", h.Logout)
	r.Handle("/auth/api/v1/verify-email", h.VerifyEmail)
	r.Handle("/auth/api/v1/me", h.Me)
}

// RegisterAdminTenantRoutes tenant management (platform-level).
func (r *Router) RegisterAdminTenantRoutes(h *TenantsHandler) {
	r.Handle("/admin/api/v1/tenants", h.ServeHTTP)
	r.Handle("/admin/api/v1/tenants/", h.ServeHTTP)
}

// RegisterAdminUserRoutes admin user + grant management (platform-level).
func (r *Router) RegisterAdminUserRoutes(h *AdminUsersHandler) {
	r.Handle("/admin/api/v1/users", h.ServeHTTP)
	r.Handle("/admin/api/v1/users/", h.ServeHTTP)
}

// RegisterSiteRoutes the tenant-scoped site module (branding) plus the
// legacy ?action= endpoint kept for already-deployed frontends.
func (r *Router) RegisterSiteRoutes(h *SiteHandler) {
	r.Handle("/api/v1/site/branding", h.PublicBranding)
	r.Handle("/admin/api/v1/site/branding", h.UpdateBranding)
	r.Handle("/api/v1/site", h.LegacyDispatch)
}
