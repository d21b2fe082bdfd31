package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	PersistencePostgres = "postgres"
	PersistenceMemory   = "memory"
)

// AppConfig contains application configuration
type AppConfig struct {
	Host        string `env:"APP_HOST" env-default:"localhost"`
	Port        uint16 `env:"APP_PORT" env-default:"8080"`
	APIPrefix   string `env:"API_PREFIX" env-default:"/api/v1"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	Persistence string `env:"PERSISTENCE" env-default:"postgres"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Addr is the listen address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// SlogLevel parses LogLevel, falling back to info.
func (a AppConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// AuthConfig controls JWT verification of API requests.
type AuthConfig struct {
	Enabled    bool   `env:"AUTH_ENABLED" env-default:"false"`
	JWTSecret  string `env:"JWT_SECRET" env-default:""`
	AdminRoles string `env:"ADMIN_ROLES" env-default:"admin"`
}

// AdminRoleNames returns the roles allowed to call mutating routes.
func (a AuthConfig) AdminRoleNames() []string {
	return ParseAdminRoleNames(a.AdminRoles)
}

type ObservabilityConfig struct {
	MetricsEnabled bool   `env:"METRICS_ENABLED" env-default:"true"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	ServiceName    string `env:"OTEL_SERVICE_NAME" env-default:"simple-user-mgmt"`
	Environment    string `env:"ENVIRONMENT" env-default:"development"`
}

type AuditConfig struct {
	Enabled bool          `env:"AUDIT_ENABLED" env-default:"true"`
	Timeout time.Duration `env:"AUDIT_TIMEOUT" env-default:"5s"`
}

// BootstrapConfig seeds the admin roles and, optionally, a first admin
// account at startup.
type BootstrapConfig struct {
	Enabled       bool   `env:"BOOTSTRAP_ENABLED" env-default:"false"`
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL" env-default:""`
	AdminFullName string `env:"BOOTSTRAP_ADMIN_NAME" env-default:""`
}

// Config is the complete service configuration.
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
	Audit         AuditConfig
	Bootstrap     BootstrapConfig
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	cfg.App.Persistence = strings.ToLower(strings.TrimSpace(cfg.App.Persistence))
	cfg.App.APIPrefix = "/" + strings.Trim(cfg.App.APIPrefix, "/")
	cfg.Bootstrap.AdminEmail = strings.TrimSpace(cfg.Bootstrap.AdminEmail)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints cleanenv cannot express.
func (c Config) Validate() error {
	return Validate(
		func() ValidationErrors {
			return CollectErrors(
				RequireValidPort("APP_PORT", c.App.Port),
				RequireOneOf("PERSISTENCE", c.App.Persistence, []string{PersistencePostgres, PersistenceMemory}),
				RequirePositiveDuration("SHUTDOWN_TIMEOUT", c.App.ShutdownTimeout),
			)
		},
		func() ValidationErrors {
			if c.App.Persistence != PersistencePostgres {
				return nil
			}
			return CollectErrors(
				RequireNonEmpty("IDM_PG_HOST", c.Database.Host),
				RequireNonEmpty("IDM_PG_DATABASE", c.Database.Database),
				RequireValidPort("IDM_PG_PORT", c.Database.Port),
			)
		},
		func() ValidationErrors {
			if !c.Auth.Enabled {
				return nil
			}
			return CollectErrors(RequireNonEmpty("JWT_SECRET", c.Auth.JWTSecret))
		},
		c.RateLimit.validate,
		func() ValidationErrors {
			if !c.Audit.Enabled {
				return nil
			}
			return CollectErrors(RequirePositiveDuration("AUDIT_TIMEOUT", c.Audit.Timeout))
		},
	)
}
