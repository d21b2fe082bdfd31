package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-user-mgmt/pkg/audit"
	auditlogapi "github.com/tendant/simple-user-mgmt/pkg/auditlog/api"
	"github.com/tendant/simple-user-mgmt/pkg/client"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	externalidentityapi "github.com/tendant/simple-user-mgmt/pkg/externalidentity/api"
	"github.com/tendant/simple-user-mgmt/pkg/metrics"
	permissionapi "github.com/tendant/simple-user-mgmt/pkg/permission/api"
	"github.com/tendant/simple-user-mgmt/pkg/ratelimit"
	roleapi "github.com/tendant/simple-user-mgmt/pkg/role/api"
	rolepermissionapi "github.com/tendant/simple-user-mgmt/pkg/rolepermission/api"
	"github.com/tendant/simple-user-mgmt/pkg/tracing"
	useraccountapi "github.com/tendant/simple-user-mgmt/pkg/useraccount/api"
	userroleapi "github.com/tendant/simple-user-mgmt/pkg/userrole/api"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
)

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	// APIPrefix is where the resource routes are mounted, e.g. /api/v1.
	APIPrefix string

	UserAccountHandle      *useraccountapi.Handle
	RoleHandle             *roleapi.Handle
	PermissionHandle       *permissionapi.Handle
	RolePermissionHandle   *rolepermissionapi.Handle
	UserRoleHandle         *userroleapi.Handle
	ExternalIdentityHandle *externalidentityapi.Handle
	AuditLogHandle         *auditlogapi.Handle

	// JWTAuth turns on authentication for the API when set. Mutating
	// requests then need one of AdminRoles.
	JWTAuth    *jwtauth.JWTAuth
	AdminRoles []string

	// Optional middleware, skipped when nil.
	RateLimit *ratelimit.Middleware
	Audit     *audit.Middleware
	Metrics   *metrics.Metrics

	// Tracing wraps every request in a server span.
	Tracing bool

	// HealthCheck backs /healthz. A nil check always reports healthy.
	HealthCheck func(ctx context.Context) error

	RequestTimeout time.Duration
}

// New returns the service handler with the standard middleware stack.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Tracing {
		r.Use(tracing.Middleware("usermgmt"))
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r.Use(middleware.Timeout(timeout))

	SetupRoutes(r, cfg)
	return r
}

// SetupRoutes mounts the operational endpoints and the resource API on router.
func SetupRoutes(router chi.Router, cfg Config) {
	router.Get("/healthz", healthz(cfg.HealthCheck))
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	router.Route(prefix, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		if cfg.JWTAuth != nil {
			r.Use(client.Verifier(cfg.JWTAuth))
			r.Use(jwtauth.Authenticator(cfg.JWTAuth))
			r.Use(client.AuthUserMiddleware)
			r.Use(client.RequireRoleForWrites(cfg.AdminRoles...))
		}
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.Handler)
		}
		if cfg.Audit != nil {
			r.Use(cfg.Audit.Handler)
		}

		useraccountapi.Routes(r, cfg.UserAccountHandle)
		roleapi.Routes(r, cfg.RoleHandle)
		permissionapi.Routes(r, cfg.PermissionHandle)
		rolepermissionapi.Routes(r, cfg.RolePermissionHandle)
		userroleapi.Routes(r, cfg.UserRoleHandle)
		externalidentityapi.Routes(r, cfg.ExternalIdentityHandle)
		auditlogapi.Routes(r, cfg.AuditLogHandle)
	})
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				utils.RenderError(w, r, idmerrors.Wrap(err, idmerrors.ErrCodeTimeout, "database unavailable"))
				return
			}
		}
		utils.RenderJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
