// Package config provides configuration management for the fittrack server.
// Configuration is loaded from a YAML file with environment variable
// substitution, validated, and optionally watched for changes so that
// rate limit presets can be adjusted without a restart.
package config

import (
	"time"

	"github.com/fittrack/fittrack/internal/observability"
)

// Backend mode values. When Mode is empty the effective mode is derived
// from which backend settings are present: a Postgres DSN selects
// multi_tenant, a SQLite path selects single_tenant, and neither
// selects demo.
const (
	ModeDemo         = "demo"
	ModeSingleTenant = "single_tenant"
	ModeMultiTenant  = "multi_tenant"
)

// Config is the root configuration for the fittrack server.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Backend    BackendConfig    `yaml:"backend"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"`
	CSRF       CSRFConfig       `yaml:"csrf"`
	FoodLookup FoodLookupConfig `yaml:"foodLookup"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Address         string   `yaml:"address"`
	MetricsAddress  string   `yaml:"metricsAddress"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	IdleTimeout     Duration `yaml:"idleTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Observability converts the log settings to the observability package form.
func (l LogConfig) Observability() observability.LogConfig {
	return observability.LogConfig{
		Level:  l.Level,
		Format: l.Format,
		Output: l.Output,
	}
}

// BackendConfig selects and configures the persistence backend.
type BackendConfig struct {
	Mode        string `yaml:"mode"`
	SQLitePath  string `yaml:"sqlitePath"`
	PostgresDSN string `yaml:"postgresDsn"`
}

// EffectiveMode resolves the backend mode, deriving it from the
// configured backends when Mode is not set explicitly.
func (b BackendConfig) EffectiveMode() string {
	if b.Mode != "" {
		return b.Mode
	}
	if b.PostgresDSN != "" {
		return ModeMultiTenant
	}
	if b.SQLitePath != "" {
		return ModeSingleTenant
	}
	return ModeDemo
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	TokenSecret string   `yaml:"tokenSecret"`
	TokenTTL    Duration `yaml:"tokenTtl"`
}

// RateLimitConfig holds rate limiting settings. Presets override the
// built-in defaults per preset name.
type RateLimitConfig struct {
	Enabled bool                    `yaml:"enabled"`
	Redis   RedisConfig             `yaml:"redis"`
	Presets map[string]PresetConfig `yaml:"presets"`
}

// RedisConfig enables distributed rate limiting backed by Redis.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PresetConfig is a single rate limit preset.
type PresetConfig struct {
	Limit  int      `yaml:"limit"`
	Window Duration `yaml:"window"`
}

// CSRFConfig holds CSRF cookie settings.
type CSRFConfig struct {
	SecureCookie bool     `yaml:"secureCookie"`
	CookieMaxAge Duration `yaml:"cookieMaxAge"`
}

// FoodLookupConfig holds settings for the external food database client.
type FoodLookupConfig struct {
	BaseURL  string   `yaml:"baseUrl"`
	Timeout  Duration `yaml:"timeout"`
	CacheTTL Duration `yaml:"cacheTtl"`
}

// Default returns a configuration with sensible defaults for every
// section. Loading a file overlays values on top of these.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":9090",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Auth: AuthConfig{
			TokenTTL: Duration(24 * time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Presets: map[string]PresetConfig{},
		},
		CSRF: CSRFConfig{
			CookieMaxAge: Duration(24 * time.Hour),
		},
		FoodLookup: FoodLookupConfig{
			BaseURL:  "https://world.openfoodfacts.org/api/v2",
			Timeout:  Duration(5 * time.Second),
			CacheTTL: Duration(1 * time.Hour),
		},
	}
}
