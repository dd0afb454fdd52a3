package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return Default()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "nil config",
			wantErr: "config is nil",
		},
		{
			name:    "empty listen address",
			mutate:  func(cfg *Config) { cfg.Server.Address = "" },
			wantErr: "server.address",
		},
		{
			name:    "bad listen address",
			mutate:  func(cfg *Config) { cfg.Server.Address = "no-port" },
			wantErr: "server.address",
		},
		{
			name:    "bad metrics address",
			mutate:  func(cfg *Config) { cfg.Server.MetricsAddress = "no-port" },
			wantErr: "server.metricsAddress",
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "loud" },
			wantErr: "log.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(cfg *Config) { cfg.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name:    "unknown backend mode",
			mutate:  func(cfg *Config) { cfg.Backend.Mode = "cloud" },
			wantErr: "backend.mode",
		},
		{
			name:    "single tenant without sqlite path",
			mutate:  func(cfg *Config) { cfg.Backend.Mode = ModeSingleTenant },
			wantErr: "backend.sqlitePath",
		},
		{
			name:    "multi tenant without dsn",
			mutate:  func(cfg *Config) { cfg.Backend.Mode = ModeMultiTenant },
			wantErr: "backend.postgresDsn",
		},
		{
			name: "persistent mode requires token secret",
			mutate: func(cfg *Config) {
				cfg.Backend.SQLitePath = "/tmp/fittrack.db"
			},
			wantErr: "auth.tokenSecret",
		},
		{
			name: "persistent mode with token secret",
			mutate: func(cfg *Config) {
				cfg.Backend.SQLitePath = "/tmp/fittrack.db"
				cfg.Auth.TokenSecret = "shhh"
			},
		},
		{
			name: "preset with zero limit",
			mutate: func(cfg *Config) {
				cfg.RateLimit.Presets["read"] = PresetConfig{Limit: 0, Window: Duration(time.Minute)}
			},
			wantErr: "limit must be positive",
		},
		{
			name: "preset with zero window",
			mutate: func(cfg *Config) {
				cfg.RateLimit.Presets["read"] = PresetConfig{Limit: 10}
			},
			wantErr: "window must be positive",
		},
		{
			name:    "redis enabled without address",
			mutate:  func(cfg *Config) { cfg.RateLimit.Redis.Enabled = true },
			wantErr: "rateLimit.redis.address",
		},
		{
			name:    "empty food lookup url",
			mutate:  func(cfg *Config) { cfg.FoodLookup.BaseURL = "" },
			wantErr: "foodLookup.baseUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg *Config
			if tt.mutate != nil {
				cfg = validConfig()
				tt.mutate(cfg)
			}

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestBackendConfig_EffectiveMode(t *testing.T) {
	tests := []struct {
		name     string
		backend  BackendConfig
		expected string
	}{
		{name: "nothing configured", backend: BackendConfig{}, expected: ModeDemo},
		{name: "sqlite path", backend: BackendConfig{SQLitePath: "/tmp/x.db"}, expected: ModeSingleTenant},
		{name: "postgres dsn", backend: BackendConfig{PostgresDSN: "postgres://u@h/db"}, expected: ModeMultiTenant},
		{
			name:     "postgres wins over sqlite",
			backend:  BackendConfig{SQLitePath: "/tmp/x.db", PostgresDSN: "postgres://u@h/db"},
			expected: ModeMultiTenant,
		},
		{
			name:     "explicit mode wins",
			backend:  BackendConfig{Mode: ModeDemo, PostgresDSN: "postgres://u@h/db"},
			expected: ModeDemo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.backend.EffectiveMode())
		})
	}
}
