package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"brandgate/internal/autherr"
	"brandgate/internal/domain"
	"brandgate/internal/repository"

	"go.uber.org/zap"
)

// TenantResolver determines which tenant a request should touch. Exactly two
// supported call shapes exist (public and admin); ResolveLegacy is kept only
// for already-deployed frontends and should not gain new callers.
type TenantResolver struct {
	tenants     repository.TenantsRepository
	defaultCode string
	logger      *zap.Logger
}

func NewTenantResolver(tenants repository.TenantsRepository, defaultCode string, logger *zap.Logger) *TenantResolver {
	return &TenantResolver{
		tenants:     tenants,
		defaultCode: defaultCode,
		logger:      logger,
	}
}

// NormalizeHost strips the port and lower-cases a Host header value for
// primary_domain lookup.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.Trim(host, "[]")
}

// ResolvePublic resolves strictly from the Host header. Unknown or inactive
// domains are a 404 contract; never a guessed tenant.
func (s *TenantResolver) ResolvePublic(ctx context.Context, host string) (*domain.Tenant, error) {
	dom := NormalizeHost(host)
	if dom == "" {
		return nil, autherr.ErrTenantNotFound
	}

	t, err := s.tenants.GetTenantByDomain(ctx, dom)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("Public tenant resolution failed", zap.String("domain", dom))
			return nil, autherr.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to resolve tenant by domain: %w", err)
	}
	if !t.IsActive {
		return nil, autherr.ErrTenantNotFound
	}
	return t, nil
}

// ResolveAdmin resolves from the explicit X-Tenant-Id / X-Tenant-Code headers.
// Missing headers are a "tenant required" contract; resolution alone never
// authorizes — the Access Guard still checks the admin's grant.
func (s *TenantResolver) ResolveAdmin(ctx context.Context, idHeader, codeHeader string) (*domain.Tenant, error) {
	idHeader = strings.TrimSpace(idHeader)
	codeHeader = strings.TrimSpace(codeHeader)

	if idHeader != "" && idHeader != "null" {
		id, err := strconv.ParseInt(idHeader, 10, 64)
		if err != nil {
			return nil, autherr.ErrTenantNotFound
		}
		return s.activeByID(ctx, id)
	}
	if codeHeader != "" && codeHeader != "null" {
		return s.activeByCode(ctx, codeHeader)
	}
	return nil, autherr.ErrTenantRequired
}

// ResolveLegacy is the compatibility priority chain:
// X-Tenant-Id → X-Tenant-Code → Origin host → Referer host → default tenant.
// A present-but-unresolvable signal falls through to the next stage, so the
// chain is deterministic for any fixed header/origin input.
func (s *TenantResolver) ResolveLegacy(ctx context.Context, idHeader, codeHeader, origin, referer string) (*domain.Tenant, error) {
	if idHeader = strings.TrimSpace(idHeader); idHeader != "" && idHeader != "null" {
		if id, err := strconv.ParseInt(idHeader, 10, 64); err == nil {
			if t, err := s.activeByID(ctx, id); err == nil {
				return t, nil
			}
		}
	}

	if codeHeader = strings.TrimSpace(codeHeader); codeHeader != "" && codeHeader != "null" {
		if t, err := s.activeByCode(ctx, codeHeader); err == nil {
			return t, nil
		}
	}

	for _, ref := range []string{origin, referer} {
		if dom := hostFromURL(ref); dom != "" {
			if t, err := s.tenants.GetTenantByDomain(ctx, dom); err == nil && t.IsActive {
				return t, nil
			}
		}
	}

	if s.defaultCode != "" {
		if t, err := s.activeByCode(ctx, s.defaultCode); err == nil {
			s.logger.Debug("Legacy resolution fell back to default tenant",
				zap.String("tenant_code", s.defaultCode))
			return t, nil
		}
	}
	return nil, autherr.ErrTenantNotFound
}

func (s *TenantResolver) activeByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t, err := s.tenants.GetTenant(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to resolve tenant by id: %w", err)
	}
	if !t.IsActive {
		return nil, autherr.ErrTenantNotFound
	}
	return t, nil
}

func (s *TenantResolver) activeByCode(ctx context.Context, code string) (*domain.Tenant, error) {
	t, err := s.tenants.GetTenantByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to resolve tenant by code: %w", err)
	}
	if !t.IsActive {
		return nil, autherr.ErrTenantNotFound
	}
	return t, nil
}

// hostFromURL extracts the port-stripped host from an Origin/Referer value.
func hostFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return NormalizeHost(u.Host)
}
