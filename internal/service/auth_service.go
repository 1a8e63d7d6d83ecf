package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brandgate/internal/autherr"
	"brandgate/internal/domain"
	"brandgate/internal/ratelimit"
	"brandgate/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Rate-limit bucket actions.
const (
	actionAdminLogin    = "admin_login"
	actionEnduserLogin  = "enduser_login"
	actionEnduserSignup = "enduser_signup"
)

// AuthService maps credentials to sessions and bearer tokens to principals.
// Every failure a caller can observe is the same ErrUnauthenticated: absent,
// expired and inactive are deliberately indistinguishable from outside.
type AuthService struct {
	admins   repository.AdminsRepository
	endusers repository.EndUsersRepository
	sessions repository.SessionsRepository
	limiter  ratelimit.Limiter
	logger   *zap.Logger

	adminTTL   time.Duration
	enduserTTL time.Duration
	verifyTTL  time.Duration

	now func() time.Time // test override
}

func NewAuthService(
	admins repository.AdminsRepository,
	endusers repository.EndUsersRepository,
	sessions repository.SessionsRepository,
	limiter ratelimit.Limiter,
	adminTTL, enduserTTL, verifyTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		admins:     admins,
		endusers:   endusers,
		sessions:   sessions,
		limiter:    limiter,
		logger:     logger,
		adminTTL:   adminTTL,
		enduserTTL: enduserTTL,
		verifyTTL:  verifyTTL,
		now:        time.Now,
	}
}

// AdminLoginRequest client IP/UA travel along for audit logging only.
type AdminLoginRequest struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// AdminLoginResponse the opaque token plus display fields for the frontend.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// AdminLogin verifies credentials and creates an admin session. The rate
// limiter is keyed by email+IP; a successful login clears the bucket.
func (s *AuthService) AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		s.logger.Warn("Admin login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("reason", "missing_credentials"),
		)
		return nil, autherr.ErrUnauthenticated
	}

	rlKey := email + ":" + req.IPAddress
	dec, err := s.limiter.Check(ctx, actionAdminLogin, rlKey)
	if err != nil {
		return nil, fmt.Errorf("%w: rate limit check: %v", autherr.ErrStoreUnavailable, err)
	}
	if !dec.Allowed {
		return nil, &autherr.RateLimitedError{RetryAfter: dec.RetryAfter}
	}

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.failAdminLogin(ctx, rlKey, req, "unknown_email")
		}
		return nil, fmt.Errorf("failed to load admin for login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, s.failAdminLogin(ctx, rlKey, req, "wrong_password")
	}

	// Correct password for a deactivated account still fails closed:
	// no session row is ever created.
	if !admin.IsActive {
		return nil, s.failAdminLogin(ctx, rlKey, req, "account_not_active")
	}

	session := &domain.AdminSession{
		Token:     uuid.NewString(),
		UserID:    admin.ID,
		ExpiresAt: s.now().Add(s.adminTTL),
	}
	if err := s.sessions.CreateAdminSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create admin session: %w", err)
	}

	if err := s.limiter.Clear(ctx, actionAdminLogin, rlKey); err != nil {
		s.logger.Warn("Failed to clear rate limit after login", zap.Error(err))
	}

	s.logger.Info("Admin login successful",
		zap.Int64("user_id", admin.ID),
		zap.String("ip_address", req.IPAddress),
		zap.String("user_agent", req.UserAgent),
	)

	return &AdminLoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UserID:    admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
	}, nil
}

func (s *AuthService) failAdminLogin(ctx context.Context, rlKey string, req AdminLoginRequest, reason string) error {
	if err := s.limiter.Record(ctx, actionAdminLogin, rlKey); err != nil {
		s.logger.Warn("Failed to record login attempt", zap.Error(err))
	}
	s.logger.Warn("Admin login failed",
		zap.String("ip_address", req.IPAddress),
		zap.String("user_agent", req.UserAgent),
		zap.String("reason", reason),
	)
	return autherr.ErrUnauthenticated
}

// AdminLogout deletes the session row; an unknown token is not an error.
func (s *AuthService) AdminLogout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteAdminSession(ctx, token)
}

// AuthenticateAdmin maps a bearer token to an admin principal. Absent,
// expired and inactive all return the identical ErrUnauthenticated.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, autherr.ErrUnauthenticated
	}

	session, err := s.sessions.GetAdminSession(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load admin session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, autherr.ErrUnauthenticated
	}

	admin, err := s.admins.GetAdmin(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.IsActive {
		return nil, autherr.ErrUnauthenticated
	}

	return &domain.Principal{
		UserID: admin.ID,
		Email:  admin.Email,
		Name:   admin.Name,
		Kind:   domain.PrincipalAdmin,
	}, nil
}

// EnduserSignupRequest tenant comes from public Host resolution, never from
// the request body.
type EnduserSignupRequest struct {
	Tenant    *domain.Tenant
	Email     string
	Name      string
	Password  string
	IPAddress string
}

// EnduserSignupResponse the verify token is returned to the caller boundary;
// delivering it by email is an external collaborator's job.
type EnduserSignupResponse struct {
	EnduserID   int64  `json:"enduserId"`
	VerifyToken string `json:"-"`
}

// EnduserSignup creates a visitor account on a tenant that allows signup.
func (s *AuthService) EnduserSignup(ctx context.Context, req EnduserSignupRequest) (*EnduserSignupResponse, error) {
	if req.Tenant == nil {
		return nil, autherr.ErrTenantNotFound
	}
	if !req.Tenant.AllowEnduserSignup {
		return nil, autherr.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", autherr.ErrConflict)
	}

	rlKey := email + ":" + req.IPAddress
	dec, err := s.limiter.Check(ctx, actionEnduserSignup, rlKey)
	if err != nil {
		return nil, fmt.Errorf("%w: rate limit check: %v", autherr.ErrStoreUnavailable, err)
	}
	if !dec.Allowed {
		return nil, &autherr.RateLimitedError{RetryAfter: dec.RetryAfter}
	}
	if err := s.limiter.Record(ctx, actionEnduserSignup, rlKey); err != nil {
		s.logger.Warn("Failed to record signup attempt", zap.Error(err))
	}

	if _, err := s.endusers.GetEndUserByEmail(ctx, req.Tenant.ID, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", autherr.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing enduser: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verifyExpires := s.now().Add(s.verifyTTL)
	user := &domain.EndUser{
		TenantID:        req.Tenant.ID,
		Email:           email,
		Name:            strings.TrimSpace(req.Name),
		PasswordHash:    string(hash),
		IsActive:        true,
		VerifyToken:     uuid.NewString(),
		VerifyExpiresAt: &verifyExpires,
	}
	id, err := s.endusers.CreateEndUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create enduser: %w", err)
	}

	s.logger.Info("Enduser signup",
		zap.Int64("enduser_id", id),
		zap.Int64("tenant_id", req.Tenant.ID),
		zap.String("ip_address", req.IPAddress),
	)
	return &EnduserSignupResponse{EnduserID: id, VerifyToken: user.VerifyToken}, nil
}

// VerifyEmail consumes a signup verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.endusers.GetEndUserByVerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return autherr.ErrUnauthenticated
		}
		return fmt.Errorf("failed to load verify token: %w", err)
	}
	if user.VerifyExpiresAt == nil || !user.VerifyExpiresAt.After(s.now()) {
		return autherr.ErrUnauthenticated
	}
	if err := s.endusers.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}

// EnduserLoginRequest tenant comes from public Host resolution.
type EnduserLoginRequest struct {
	Tenant    *domain.Tenant
	Email     string
	Password  string
	IPAddress string
}

type EnduserLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	EnduserID int64     `json:"enduserId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// EnduserLogin verifies credentials against the resolved tenant only and
// issues a session scoped to that tenant.
func (s *AuthService) EnduserLogin(ctx context.Context, req EnduserLoginRequest) (*EnduserLoginResponse, error) {
	if req.Tenant == nil {
		return nil, autherr.ErrTenantNotFound
	}
	if !req.Tenant.AllowEnduserLogin {
		return nil, autherr.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, autherr.ErrUnauthenticated
	}

	rlKey := email + ":" + req.IPAddress
	dec, err := s.limiter.Check(ctx, actionEnduserLogin, rlKey)
	if err != nil {
		return nil, fmt.Errorf("%w: rate limit check: %v", autherr.ErrStoreUnavailable, err)
	}
	if !dec.Allowed {
		return nil, &autherr.RateLimitedError{RetryAfter: dec.RetryAfter}
	}

	fail := func(reason string) error {
		if err := s.limiter.Record(ctx, actionEnduserLogin, rlKey); err != nil {
			s.logger.Warn("Failed to record login attempt", zap.Error(err))
		}
		s.logger.Warn("Enduser login failed",
			zap.Int64("tenant_id", req.Tenant.ID),
			zap.String("ip_address", req.IPAddress),
			zap.String("reason", reason),
		)
		return autherr.ErrUnauthenticated
	}

	user, err := s.endusers.GetEndUserByEmail(ctx, req.Tenant.ID, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fail("unknown_email")
		}
		return nil, fmt.Errorf("failed to load enduser for login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, fail("wrong_password")
	}
	if !user.IsActive {
		return nil, fail("account_not_active")
	}
	if user.EmailVerifiedAt == nil {
		return nil, fail("email_not_verified")
	}

	session := &domain.EndUserSession{
		Token:     uuid.NewString(),
		EndUserID: user.ID,
		TenantID:  req.Tenant.ID,
		ExpiresAt: s.now().Add(s.enduserTTL),
	}
	if err := s.sessions.CreateEndUserSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create enduser session: %w", err)
	}
	if err := s.limiter.Clear(ctx, actionEnduserLogin, rlKey); err != nil {
		s.logger.Warn("Failed to clear rate limit after login", zap.Error(err))
	}

	s.logger.Info("Enduser login successful",
		zap.Int64("enduser_id", user.ID),
		zap.Int64("tenant_id", req.Tenant.ID),
		zap.String("ip_address", req.IPAddress),
	)
	return &EnduserLoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		EnduserID: user.ID,
		Email:     user.Email,
		Name:      user.Name,
	}, nil
}

// EnduserLogout deletes the session row; an unknown token is not an error.
func (s *AuthService) EnduserLogout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteEndUserSession(ctx, token)
}

// AuthenticateEnduser maps a bearer token to an end-user principal inside
// tenantID. A token issued for another tenant fails closed with the same
// error as an unknown token.
func (s *AuthService) AuthenticateEnduser(ctx context.Context, token string, tenantID int64) (*domain.Principal, error) {
	if token == "" || tenantID == 0 {
		return nil, autherr.ErrUnauthenticated
	}

	session, err := s.sessions.GetEndUserSession(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load enduser session: %w", err)
	}
	if session.TenantID != tenantID {
		return nil, autherr.ErrUnauthenticated
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, autherr.ErrUnauthenticated
	}

	user, err := s.endusers.GetEndUser(ctx, session.EndUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load enduser: %w", err)
	}
	if !user.IsActive {
		return nil, autherr.ErrUnauthenticated
	}

	return &domain.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Kind:     domain.PrincipalEnduser,
		TenantID: session.TenantID,
	}, nil
}

// PurgeExpiredSessions removes expired rows of both kinds; called from a
// background ticker so the sessions tables cannot grow without bound.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) {
	if n, err := s.sessions.DeleteExpiredAdminSessions(ctx); err != nil {
		s.logger.Warn("Failed to purge admin sessions", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("Purged expired admin sessions", zap.Int64("count", n))
	}
	if n, err := s.sessions.DeleteExpiredEndUserSessions(ctx); err != nil {
		s.logger.Warn("Failed to purge enduser sessions", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("Purged expired enduser sessions", zap.Int64("count", n))
	}
}

// HashPassword is the single place passwords are hashed; used by handlers
// creating admin users and by the dev seed.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
