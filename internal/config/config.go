// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates them so the
// service fails fast on bad or missing configuration.
//
// Responsibilities:
//   - Load defaults, then environment variables prefixed with DYTOOL_.
//   - Map env vars into a structured Go config (structs).
//   - Validate required values.
//   - Provide defaults for optional blocks (observability, redis, douyin).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every environment variable before it is mapped.
//
// Nesting uses "." so the env var name mirrors the koanf path:
//
//	DYTOOL_SERVER.PORT=8000      -> server.port
//	DYTOOL_DOUYIN.MAX_RETRIES=5  -> douyin.max_retries
const EnvPrefix = "DYTOOL_"

// ServiceName groups telemetry regardless of environment.
const ServiceName = "dytool-backend"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected by Load.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Douyin        DouyinConfig         `koanf:"douyin" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimitPerSecond of 0 disables the limiter.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second" validate:"min=0"`
	RateLimitBurst     int     `koanf:"rate_limit_burst" validate:"min=0"`
}

// RedisConfig is optional. An empty Address disables the sec_user_id cache.
type RedisConfig struct {
	Address      string        `koanf:"address"`
	SecUserIDTTL time.Duration `koanf:"sec_user_id_ttl"`
}

// Enabled reports whether a Redis address has been configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// DouyinConfig controls the outbound Douyin web client.
type DouyinConfig struct {
	BaseURL   string `koanf:"base_url" validate:"required,url"`
	UserAgent string `koanf:"user_agent" validate:"required"`
	Referer   string `koanf:"referer" validate:"required"`

	Timeout    time.Duration `koanf:"timeout" validate:"min=1s"`
	MaxRetries int           `koanf:"max_retries" validate:"min=0"`
	RetryWait  time.Duration `koanf:"retry_wait"`

	// MinCookieLength is the shortest cookie the parse workflow accepts before
	// it bothers calling Douyin.
	MinCookieLength int `koanf:"min_cookie_length" validate:"min=1"`
}

// defaults are loaded before the environment so every key can be overridden.
func defaults() map[string]any {
	return map[string]any{
		"primary.env": "development",

		"server.port":                  "8000",
		"server.read_timeout":          30,
		"server.write_timeout":         60,
		"server.idle_timeout":          120,
		"server.cors_allowed_origins":  []string{"*"},
		"server.rate_limit_per_second": 10.0,
		"server.rate_limit_burst":      20,

		"redis.address":         "",
		"redis.sec_user_id_ttl": "24h",

		"douyin.base_url":          "https://www.douyin.com",
		"douyin.user_agent":        "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"douyin.referer":           "https://www.douyin.com/",
		"douyin.timeout":           "30s",
		"douyin.max_retries":       3,
		"douyin.retry_wait":        "500ms",
		"douyin.min_cookie_length": 100,

		"observability.logging.level":                         "info",
		"observability.logging.format":                        "json",
		"observability.logging.slow_request_threshold":        "2s",
		"observability.new_relic.license_key":                 "",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.new_relic.debug_logging":               false,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.interval":                "30s",
		"observability.health_checks.timeout":                 "5s",
		"observability.health_checks.checks":                  []string{"redis"},
	}
}

// Load builds the Config from defaults and DYTOOL_* environment variables,
// validates it and fills in the observability block.
//
// Slice fields accept comma separated values, so
// DYTOOL_SERVER.CORS_ALLOWED_ORIGINS="http://a,http://b" works.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
