package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brandgate/internal/domain"
	"brandgate/internal/ratelimit"
	"brandgate/internal/repository"
	"brandgate/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires the full stack on in-memory repositories, then exercises it
// through the router exactly as a frontend would.
type testEnv struct {
	router  *Router
	tenants repository.TenantsRepository
	admins  repository.AdminsRepository
	grants  repository.GrantsRepository
	auth    *service.AuthService

	platformID int64
	acmeID     int64
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()

	env := &testEnv{
		tenants: repository.NewMemoryTenantsRepo(),
		admins:  repository.NewMemoryAdminsRepo(),
		grants:  repository.NewMemoryGrantsRepo(),
	}
	sessions := repository.NewMemorySessionsRepo()
	endusers := repository.NewMemoryEndUsersRepo()
	limiter := ratelimit.NewMemoryLimiter(5, 15*time.Minute)

	resolver := service.NewTenantResolver(env.tenants, "acme", log)
	env.auth = service.NewAuthService(env.admins, endusers, sessions, limiter,
		12*time.Hour, 720*time.Hour, 24*time.Hour, log)
	guard := service.NewAccessGuard(env.grants, env.tenants, log)
	pipeline := NewPipeline(resolver, env.auth, guard, log)

	env.router = NewRouter(log)
	env.router.RegisterAuthRoutes(NewAuthHandler(env.auth, env.grants, pipeline, log))
	env.router.RegisterEnduserRoutes(NewEnduserHandler(env.auth, pipeline, log))
	env.router.RegisterAdminTenantRoutes(NewTenantsHandler(env.tenants, pipeline, log))
	env.router.RegisterAdminUserRoutes(NewAdminUsersHandler(env.admins, env.grants, pipeline, log))
	env.router.RegisterSiteRoutes(NewSiteHandler(env.tenants, resolver, pipeline, log))

	ctx := context.Background()
	var err error
	env.platformID, err = env.tenants.CreateTenant(ctx, &domain.Tenant{
		Code: domain.PlatformTenantCode, Name: "Platform", IsActive: true,
	})
	require.NoError(t, err)
	env.acmeID, err = env.tenants.CreateTenant(ctx, &domain.Tenant{
		Code: "acme", Name: "Acme", PrimaryDomain: "acme.example.com", IsActive: true,
		Branding: json.RawMessage(`{"logo":"acme.png"}`),
	})
	require.NoError(t, err)

	return env
}

// createAdmin registers an admin with a grant and returns a live token.
func (env *testEnv) createAdmin(t *testing.T, email string, tenantID int64, role domain.Role) string {
	t.Helper()
	ctx := context.Background()

	hash, err := service.HashPassword("secret123")
	require.NoError(t, err)
	userID, err := env.admins.CreateAdmin(ctx, &domain.AdminUser{
		Email: email, Name: "Admin", PasswordHash: hash, IsActive: true,
	})
	require.NoError(t, err)
	if tenantID != 0 {
		require.NoError(t, env.grants.UpsertGrant(ctx, &domain.Grant{
			UserID: userID, TenantID: tenantID, Role: role,
		}))
	}

	resp, err := env.auth.AdminLogin(ctx, service.AdminLoginRequest{
		Email: email, Password: "secret123", IPAddress: "127.0.0.1",
	})
	require.NoError(t, err)
	return resp.Token
}

func (env *testEnv) do(t *testing.T, method, target, host, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rdr)
	if host != "" {
		r.Host = host
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)
	return w
}

func TestPublicBranding(t *testing.T) {
	env := setupEnv(t)

	t.Run("known host serves branding", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site/branding", "acme.example.com", "", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body Result[map[string]any]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ResultSuccess, body.Code)
		assert.Equal(t, "acme", body.Result["tenantCode"])
	})

	t.Run("host with port still resolves", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site/branding", "acme.example.com:8443", "", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown host is 404", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site/branding", "nobody.example.com", "", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deactivated tenant turns 404", func(t *testing.T) {
		require.NoError(t, env.tenants.SetTenantActive(context.Background(), env.acmeID, false))
		defer env.tenants.SetTenantActive(context.Background(), env.acmeID, true)

		w := env.do(t, "GET", "/api/v1/site/branding", "acme.example.com", "", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminPipeline(t *testing.T) {
	env := setupEnv(t)
	editorToken := env.createAdmin(t, "editor@example.com", env.acmeID, domain.RoleEditor)
	viewerToken := env.createAdmin(t, "viewer@example.com", env.acmeID, domain.RoleViewer)

	branding := `{"branding":{"logo":"new.png"}}`

	t.Run("no token is 401", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/site/branding", "", "", branding, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token but no tenant header is 400", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/site/branding", "", editorToken, branding, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown tenant header is 400 on admin routes", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/site/branding", "", editorToken, branding,
			map[string]string{"X-Tenant-Code": "does-not-exist"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("viewer below editor requirement is 403", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/site/branding", "", viewerToken, branding,
			map[string]string{"X-Tenant-Code": "acme"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("editor updates branding", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/site/branding", "", editorToken, branding,
			map[string]string{"X-Tenant-Code": "acme"})
		require.Equal(t, http.StatusOK, w.Code)

		tenant, err := env.tenants.GetTenant(context.Background(), env.acmeID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"logo":"new.png"}`, string(tenant.Branding))
	})

	t.Run("X-Tenant-Id header works too", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/site/branding", "", editorToken, branding,
			map[string]string{"X-Tenant-Id": "2"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPlatformPipeline(t *testing.T) {
	env := setupEnv(t)
	platformToken := env.createAdmin(t, "root@example.com", env.platformID, domain.RoleAdmin)
	tenantToken := env.createAdmin(t, "editor@example.com", env.acmeID, domain.RoleAdmin)

	t.Run("platform admin lists tenants", func(t *testing.T) {
		w := env.do(t, "GET", "/admin/api/v1/tenants", "", platformToken, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body Result[map[string]any]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 2, body.Result["total"])
	})

	t.Run("tenant admin is not a platform admin", func(t *testing.T) {
		w := env.do(t, "GET", "/admin/api/v1/tenants", "", tenantToken, "", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("platform admin manages grants", func(t *testing.T) {
		w := env.do(t, "POST", "/admin/api/v1/users", "", platformToken,
			`{"email":"new@example.com","name":"New","password":"secret123"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var created Result[map[string]any]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		userID := int64(created.Result["userId"].(float64))

		w = env.do(t, "PUT", "/admin/api/v1/users/3/grants", "", platformToken,
			`{"tenantId":2,"role":"viewer"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		grant, err := env.grants.GetGrant(context.Background(), userID, env.acmeID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleViewer, grant.Role)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		w := env.do(t, "PUT", "/admin/api/v1/users/1/grants", "", platformToken,
			`{"tenantId":2,"role":"superuser"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginRateLimitOverHTTP(t *testing.T) {
	env := setupEnv(t)
	env.createAdmin(t, "admin@example.com", env.acmeID, domain.RoleAdmin)

	bad := `{"email":"admin@example.com","password":"wrong"}`
	for i := 0; i < 5; i++ {
		w := env.do(t, "POST", "/auth/api/v1/admin/login", "", "", bad, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	w := env.do(t, "POST", "/auth/api/v1/admin/login", "", "", bad, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestLegacySiteDispatch(t *testing.T) {
	env := setupEnv(t)

	t.Run("tenant code header", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site?action=branding", "", "", "",
			map[string]string{"X-Tenant-Code": "acme"})
		require.Equal(t, http.StatusOK, w.Code)

		var body Result[map[string]any]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "acme", body.Result["tenantCode"])
	})

	t.Run("origin header resolves", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site?action=get_tenant", "", "", "",
			map[string]string{"Origin": "https://acme.example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no signal falls back to default tenant", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site?action=branding", "", "", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown action is 400", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/site?action=drop_tables", "", "", "",
			map[string]string{"X-Tenant-Code": "acme"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEnduserFlowOverHTTP(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	// Open up signup/login on acme.
	tenant, err := env.tenants.GetTenant(ctx, env.acmeID)
	require.NoError(t, err)
	tenant.AllowEnduserSignup = true
	tenant.AllowEnduserLogin = true
	require.NoError(t, env.tenants.UpdateTenant(ctx, env.acmeID, tenant))

	creds := `{"email":"user@example.com","name":"User","password":"hunter22"}`

	w := env.do(t, "POST", "/auth/api/v1/signup", "acme.example.com", "", creds, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Grab the verify token straight from the auth service flow.
	signup, err := env.auth.EnduserSignup(ctx, service.EnduserSignupRequest{
		Tenant: tenant, Email: "second@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	w = env.do(t, "GET", "/auth/api/v1/verify-email?token="+signup.VerifyToken, "acme.example.com", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "POST", "/auth/api/v1/login", "acme.example.com", "",
		`{"email":"second@example.com","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var login Result[map[string]any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Result["token"].(string)

	t.Run("me on the issuing host", func(t *testing.T) {
		w := env.do(t, "GET", "/auth/api/v1/me", "acme.example.com", token, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("me on another host fails closed", func(t *testing.T) {
		w := env.do(t, "GET", "/auth/api/v1/me", "other.example.com", token, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("signup on unknown host is 404", func(t *testing.T) {
		w := env.do(t, "POST", "/auth/api/v1/signup", "nobody.example.com", "", creds, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
