package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Log output formats accepted by LOG_FORMAT.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// ErrHelpWanted is returned by Load when --help or --version was requested.
// The error text carries the usage or version output.
var ErrHelpWanted = errors.New("help wanted")

// Config holds all configuration for the importer and its tooling.
type Config struct {
	conf.Version

	// Pipeline
	WorkbookPath  string `conf:"default:docs/acnh.xlsx,env:WORKBOOK_PATH,flag:workbook"`
	JSONOutput    string `conf:"default:data/generated/items.json,env:JSON_OUTPUT,flag:json-out"`
	LuauOutput    string `conf:"default:src/shared/Data/GeneratedItems.luau,env:LUAU_OUTPUT,flag:luau-out"`
	JSONOnly      bool   `conf:"default:false,env:JSON_ONLY,flag:json-only,help:only emit the JSON payload (skip the Luau module)"`
	SheetPlanPath string `conf:"env:SHEET_PLAN,flag:sheet-plan,help:YAML file replacing the default sheet/category plan"`
	ReferenceDir  string `conf:"env:REFERENCE_DIR,flag:reference-dir,help:directory of cached reference JSON payloads"`
	WarningLimit  int    `conf:"default:25,env:WARNING_LIMIT,flag:warning-limit"`

	// Snapshot sinks; empty URLs disable them. RedisNamespace prefixes
	// every cache key.
	DatabaseURL    string `conf:"env:CATALOG_DATABASE_URL,flag:database-url,noprint"`
	RedisURL       string `conf:"env:REDIS_URL,flag:redis-url,noprint"`
	RedisNamespace string `conf:"default:catalog,env:REDIS_NAMESPACE"`

	// Worker read API; an empty address disables it.
	HTTPAddr           string `conf:"default::8081,env:HTTP_ADDR,flag:http-addr"`
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int    `conf:"default:120,env:RATE_LIMIT_PER_MINUTE"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	LogFormat   string `conf:"default:text,enum:json|text,env:LOG_FORMAT"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// Observability
	ServiceName     string `conf:"default:catalog-importer,env:SERVICE_NAME"`
	ServiceVersion  string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint    string `conf:"env:OTEL_ENDPOINT"`
	MetricsTextfile string `conf:"env:METRICS_TEXTFILE,flag:metrics-textfile"`
	SentryDSN       string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from flags and environment variables with
// sensible defaults. A .env file in the working directory is honored.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()

	cfg.Version = conf.Version{Build: "dev", Desc: "Catalog importer: workbook to JSON and Luau"}
	help, err := conf.Parse("", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil, fmt.Errorf("%w: %s", ErrHelpWanted, help)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// String renders the effective configuration with secrets masked.
func (cfg *Config) String() string {
	out, err := conf.String(cfg)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return out
}

// ValidateForProduction enforces safety requirements when ENVIRONMENT=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if cfg.OtelEndpoint != "" {
		u, err := url.Parse(cfg.OtelEndpoint)
		if err != nil || u.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("OTEL_ENDPOINT must use https in production (got %q)", cfg.OtelEndpoint))
		}
	}

	if cfg.HTTPAddr != "" && strings.TrimSpace(cfg.CORSAllowedOrigins) == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if strings.Contains(cfg.DatabaseURL, "sslmode=disable") {
		errs = append(errs, "CATALOG_DATABASE_URL must not disable TLS in production")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
