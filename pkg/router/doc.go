// Package router assembles the HTTP surface of the service.
//
// Example:
//
//	handler := router.New(router.Config{
//		APIPrefix:        "/api/v1",
//		RoleHandle:       roleapi.NewHandle(roleService),
//		// ...one handle per resource
//		JWTAuth:          client.NewJWTAuth(secret),
//		AdminRoles:       []string{"admin"},
//		HealthCheck:      pool.Ping,
//	})
//
// Middleware on the API prefix runs in this order: JWT verification, the
// admin guard for mutating requests, rate limiting, then the audit trail.
package router
