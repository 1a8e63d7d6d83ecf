package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"brandgate/internal/config"
	"brandgate/internal/database"
	"brandgate/internal/domain"
	httpapi "brandgate/internal/http"
	"brandgate/internal/logger"
	"brandgate/internal/ratelimit"
	"brandgate/internal/repository"
	"brandgate/internal/service"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "brandgate")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// ========== Storage ==========
	var (
		db       *sql.DB
		tenants  repository.TenantsRepository
		admins   repository.AdminsRepository
		grants   repository.GrantsRepository
		sessions repository.SessionsRepository
		endusers repository.EndUsersRepository
	)
	if cfg.DBEnabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(db)
		tenants = repository.NewPostgresTenantsRepo(db)
		admins = repository.NewPostgresAdminsRepo(db)
		grants = repository.NewPostgresGrantsRepo(db)
		sessions = repository.NewPostgresSessionsRepo(db)
		endusers = repository.NewPostgresEndUsersRepo(db)
		log.Info("Using PostgreSQL repositories",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
	} else {
		tenants = repository.NewMemoryTenantsRepo()
		admins = repository.NewMemoryAdminsRepo()
		grants = repository.NewMemoryGrantsRepo()
		sessions = repository.NewMemorySessionsRepo()
		endusers = repository.NewMemoryEndUsersRepo()
		log.Warn("DB disabled, using in-memory repositories (dev only)")
	}

	// ========== Rate limiter ==========
	var limiter ratelimit.Limiter
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory rate limiter", zap.Error(err))
		limiter = ratelimit.NewMemoryLimiter(cfg.Auth.RateLimitMax, cfg.Auth.RateLimitWindow)
	} else {
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.Auth.RateLimitMax, cfg.Auth.RateLimitWindow, log)
		defer rdb.Close()
	}
	cancel()

	// ========== Services ==========
	resolver := service.NewTenantResolver(tenants, cfg.Auth.DefaultTenantCode, log)
	auth := service.NewAuthService(admins, endusers, sessions, limiter,
		cfg.Auth.AdminSessionTTL, cfg.Auth.EnduserSessionTTL, cfg.Auth.VerifyTokenTTL, log)
	guard := service.NewAccessGuard(grants, tenants, log)

	if err := seed(context.Background(), tenants, admins, grants, log); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}

	// ========== HTTP ==========
	pipeline := httpapi.NewPipeline(resolver, auth, guard, log)
	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(auth, grants, pipeline, log))
	router.RegisterEnduserRoutes(httpapi.NewEnduserHandler(auth, pipeline, log))
	router.RegisterAdminTenantRoutes(httpapi.NewTenantsHandler(tenants, pipeline, log))
	router.RegisterAdminUserRoutes(httpapi.NewAdminUsersHandler(admins, grants, pipeline, log))
	router.RegisterSiteRoutes(httpapi.NewSiteHandler(tenants, resolver, pipeline, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	// Expired session purge loop.
	purgeCtx, purgeCancel := context.WithCancel(context.Background())
	defer purgeCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				auth.PurgeExpiredSessions(purgeCtx)
			}
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
	log.Info("brandgate stopped")
}

// seed guarantees the reserved platform tenant exists and, when
// SEED_PLATFORM_ADMIN is set ("email:password"), bootstraps a platform admin
// so a fresh deployment can be managed at all.
func seed(ctx context.Context, tenants repository.TenantsRepository, admins repository.AdminsRepository, grants repository.GrantsRepository, log *zap.Logger) error {
	platform, err := tenants.GetTenantByCode(ctx, domain.PlatformTenantCode)
	if errors.Is(err, repository.ErrNotFound) {
		id, cerr := tenants.CreateTenant(ctx, &domain.Tenant{
			Code:     domain.PlatformTenantCode,
			Name:     "Platform",
			IsActive: true,
		})
		if cerr != nil {
			return cerr
		}
		platform = &domain.Tenant{ID: id, Code: domain.PlatformTenantCode}
		log.Info("Created platform tenant", zap.Int64("tenant_id", id))
	} else if err != nil {
		return err
	}

	raw := os.Getenv("SEED_PLATFORM_ADMIN")
	if raw == "" {
		return nil
	}
	email, password, ok := strings.Cut(raw, ":")
	if !ok || email == "" || password == "" {
		log.Warn("SEED_PLATFORM_ADMIN malformed, expected email:password")
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := admins.GetAdminByEmail(ctx, email); err == nil {
		return nil // already bootstrapped
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	userID, err := admins.CreateAdmin(ctx, &domain.AdminUser{
		Email:        email,
		Name:         "Platform Admin",
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		return err
	}
	if err := grants.UpsertGrant(ctx, &domain.Grant{
		UserID:   userID,
		TenantID: platform.ID,
		Role:     domain.RoleAdmin,
	}); err != nil {
		return err
	}
	log.Info("Seeded platform admin", zap.Int64("user_id", userID))
	return nil
}
