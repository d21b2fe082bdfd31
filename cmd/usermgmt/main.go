package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-user-mgmt/pkg/audit"
	"github.com/tendant/simple-user-mgmt/pkg/auditlog"
	auditlogapi "github.com/tendant/simple-user-mgmt/pkg/auditlog/api"
	"github.com/tendant/simple-user-mgmt/pkg/bootstrap"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	"github.com/tendant/simple-user-mgmt/pkg/config"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/externalidentity"
	externalidentityapi "github.com/tendant/simple-user-mgmt/pkg/externalidentity/api"
	"github.com/tendant/simple-user-mgmt/pkg/metrics"
	"github.com/tendant/simple-user-mgmt/pkg/permission"
	permissionapi "github.com/tendant/simple-user-mgmt/pkg/permission/api"
	"github.com/tendant/simple-user-mgmt/pkg/ratelimit"
	"github.com/tendant/simple-user-mgmt/pkg/role"
	roleapi "github.com/tendant/simple-user-mgmt/pkg/role/api"
	"github.com/tendant/simple-user-mgmt/pkg/rolepermission"
	rolepermissionapi "github.com/tendant/simple-user-mgmt/pkg/rolepermission/api"
	"github.com/tendant/simple-user-mgmt/pkg/router"
	"github.com/tendant/simple-user-mgmt/pkg/tracing"
	"github.com/tendant/simple-user-mgmt/pkg/useraccount"
	useraccountapi "github.com/tendant/simple-user-mgmt/pkg/useraccount/api"
	"github.com/tendant/simple-user-mgmt/pkg/userrole"
	userroleapi "github.com/tendant/simple-user-mgmt/pkg/userrole/api"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

type repositories struct {
	userAccounts       useraccount.UserAccountRepository
	roles              role.RoleRepository
	permissions        permission.PermissionRepository
	rolePermissions    rolepermission.RolePermissionRepository
	userRoles          userrole.UserRoleRepository
	externalIdentities externalidentity.ExternalIdentityRepository
	auditLogs          auditlog.AuditLogRepository
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		userAccounts:       useraccount.NewPostgresUserAccountRepository(pool),
		roles:              role.NewPostgresRoleRepository(pool),
		permissions:        permission.NewPostgresPermissionRepository(pool),
		rolePermissions:    rolepermission.NewPostgresRolePermissionRepository(pool),
		userRoles:          userrole.NewPostgresUserRoleRepository(pool),
		externalIdentities: externalidentity.NewPostgresExternalIdentityRepository(pool),
		auditLogs:          auditlog.NewPostgresAuditLogRepository(pool),
	}
}

func inMemoryRepositories() repositories {
	return repositories{
		userAccounts:       useraccount.NewInMemoryUserAccountRepository(),
		roles:              role.NewInMemoryRoleRepository(),
		permissions:        permission.NewInMemoryPermissionRepository(),
		rolePermissions:    rolepermission.NewInMemoryRolePermissionRepository(),
		userRoles:          userrole.NewInMemoryUserRoleRepository(),
		externalIdentities: externalidentity.NewInMemoryExternalIdentityRepository(),
		auditLogs:          auditlog.NewInMemoryAuditLogRepository(),
	}
}

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.App.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting user management service", "version", version, "persistence", cfg.App.Persistence)

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Observability.OTLPEndpoint,
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	var (
		repos       repositories
		healthCheck func(ctx context.Context) error
	)
	switch cfg.App.Persistence {
	case config.PersistenceMemory:
		slog.Warn("Using in-memory persistence; data is lost on restart")
		repos = inMemoryRepositories()
	default:
		pool, err := database.NewPool(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed to connect to database",
				"host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
			return err
		}
		defer pool.Close()
		slog.Info("Database connected", "database", cfg.Database.Database, "schema", cfg.Database.Schema)
		repos = postgresRepositories(pool)
		healthCheck = pool.Ping
	}

	userAccountService := useraccount.NewUserAccountService(repos.userAccounts)
	roleService := role.NewRoleService(repos.roles)
	permissionService := permission.NewPermissionService(repos.permissions)
	rolePermissionService := rolepermission.NewRolePermissionService(repos.rolePermissions)
	userRoleService := userrole.NewUserRoleService(repos.userRoles)
	externalIdentityService := externalidentity.NewExternalIdentityService(repos.externalIdentities)
	auditLogService := auditlog.NewAuditLogService(repos.auditLogs)

	if cfg.Bootstrap.Enabled {
		result, err := bootstrap.BootstrapAdmin(ctx, bootstrap.AdminBootstrapConfig{
			AdminRoleNames:     cfg.Auth.AdminRoleNames(),
			AdminEmail:         cfg.Bootstrap.AdminEmail,
			AdminFullName:      cfg.Bootstrap.AdminFullName,
			RoleService:        roleService,
			UserAccountService: userAccountService,
			UserRoleService:    userRoleService,
		})
		if err != nil {
			return err
		}
		bootstrap.LogBootstrapSummary(result)
	}

	routerConfig := router.Config{
		APIPrefix:              cfg.App.APIPrefix,
		UserAccountHandle:      useraccountapi.NewHandle(userAccountService),
		RoleHandle:             roleapi.NewHandle(roleService),
		PermissionHandle:       permissionapi.NewHandle(permissionService),
		RolePermissionHandle:   rolepermissionapi.NewHandle(rolePermissionService),
		UserRoleHandle:         userroleapi.NewHandle(userRoleService),
		ExternalIdentityHandle: externalidentityapi.NewHandle(externalIdentityService),
		AuditLogHandle:         auditlogapi.NewHandle(auditLogService),
		AdminRoles:             cfg.Auth.AdminRoleNames(),
		Tracing:                cfg.Observability.OTLPEndpoint != "",
		HealthCheck:            healthCheck,
		RequestTimeout:         60 * time.Second,
	}

	if cfg.Auth.Enabled {
		routerConfig.JWTAuth = client.NewJWTAuth(cfg.Auth.JWTSecret)
		slog.Info("JWT authentication enabled", "admin_roles", routerConfig.AdminRoles)
	} else {
		slog.Warn("JWT authentication disabled; the API is open")
	}

	if cfg.Observability.MetricsEnabled {
		routerConfig.Metrics = metrics.New()
		routerConfig.Metrics.SetBuildInfo(version)
	}

	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = ratelimit.NewMiddleware(rateLimitConfig(cfg.RateLimit))
		routerConfig.RateLimit.Start(ctx)
	}

	var auditor *audit.Middleware
	if cfg.Audit.Enabled {
		auditConfig := audit.Config{Prefix: cfg.App.APIPrefix, Timeout: cfg.Audit.Timeout}
		if routerConfig.Metrics != nil {
			auditConfig.Observe = routerConfig.Metrics.ObserveAuditEntry
		}
		auditor, err = audit.NewMiddleware(auditLogService, auditConfig)
		if err != nil {
			return err
		}
		routerConfig.Audit = auditor
	}

	server := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router.New(routerConfig),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr, "api_prefix", cfg.App.APIPrefix)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.App.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if auditor != nil {
		auditor.Wait()
	}
	slog.Info("Server stopped")
	return nil
}

func rateLimitConfig(c config.RateLimitConfig) ratelimit.Config {
	return ratelimit.Config{
		GlobalEnabled:    c.GlobalEnabled,
		GlobalBurst:      c.GlobalCapacity,
		GlobalPerSecond:  c.GlobalRefillRate,
		PerIPEnabled:     c.PerIPEnabled,
		PerIPBurst:       c.PerIPCapacity,
		PerIPPerSecond:   c.PerIPRefillRate,
		PerUserEnabled:   c.PerUserEnabled,
		PerUserBurst:     c.PerUserCapacity,
		PerUserPerSecond: c.PerUserRefillRate,
		BucketTTL:        c.BucketTTL,
		IncludeHeaders:   c.IncludeHeaders,
	}
}

// loadEnvFile loads a .env next to the executable or in the working
// directory. A missing file is not an error.
func loadEnvFile() {
	envFile := ".env"
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(candidate); err == nil {
			envFile = candidate
		}
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "path", envFile, "error", err)
		return
	}
	slog.Info("Loaded configuration from .env file", "path", envFile)
}
