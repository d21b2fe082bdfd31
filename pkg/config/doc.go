// Package config loads the service configuration from the environment.
//
// Values are read with cleanenv from struct tags; a .env file, when
// present, is loaded into the environment first by the command.
//
// # Groups
//
//	App            APP_HOST, APP_PORT, API_PREFIX, LOG_LEVEL, PERSISTENCE
//	Database       IDM_PG_HOST, IDM_PG_PORT, IDM_PG_DATABASE, IDM_PG_USER, IDM_PG_PASSWORD, IDM_PG_SCHEMA
//	Auth           AUTH_ENABLED, JWT_SECRET, ADMIN_ROLES
//	RateLimit      RATELIMIT_*
//	Observability  METRICS_ENABLED, OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_SERVICE_NAME, ENVIRONMENT
//	Audit          AUDIT_ENABLED, AUDIT_TIMEOUT
//
// # Validation
//
// Load validates the result and reports every problem at once:
//
//	cfg, err := config.Load()
//	if err != nil {
//		// configuration validation failed:
//		//   - JWT_SECRET: is required
//		//   - PERSISTENCE: must be one of [postgres memory]
//	}
package config
