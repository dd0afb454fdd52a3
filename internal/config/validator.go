package config

import (
	"fmt"
	"net"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks a configuration for internal consistency. It is
// called by Load and again by the watcher before a reload is applied.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateAddress("server.address", cfg.Server.Address); err != nil {
		return err
	}
	if cfg.Server.MetricsAddress != "" {
		if err := validateAddress("server.metricsAddress", cfg.Server.MetricsAddress); err != nil {
			return err
		}
	}

	if cfg.Log.Level != "" && !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "" && !validLogFormats[cfg.Log.Format] {
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}

	if err := validateBackend(cfg.Backend); err != nil {
		return err
	}

	mode := cfg.Backend.EffectiveMode()
	if mode != ModeDemo && cfg.Auth.TokenSecret == "" {
		return fmt.Errorf("auth.tokenSecret is required when backend mode is %q", mode)
	}

	for name, preset := range cfg.RateLimit.Presets {
		if preset.Limit <= 0 {
			return fmt.Errorf("rateLimit.presets.%s: limit must be positive", name)
		}
		if preset.Window <= 0 {
			return fmt.Errorf("rateLimit.presets.%s: window must be positive", name)
		}
	}

	if cfg.RateLimit.Redis.Enabled && cfg.RateLimit.Redis.Address == "" {
		return fmt.Errorf("rateLimit.redis.address is required when redis is enabled")
	}

	if cfg.FoodLookup.BaseURL == "" {
		return fmt.Errorf("foodLookup.baseUrl must not be empty")
	}

	return nil
}

func validateAddress(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: invalid listen address %q: %w", field, addr, err)
	}
	return nil
}

func validateBackend(b BackendConfig) error {
	switch b.Mode {
	case "", ModeDemo, ModeSingleTenant, ModeMultiTenant:
	default:
		return fmt.Errorf("backend.mode: unknown mode %q", b.Mode)
	}

	switch b.EffectiveMode() {
	case ModeSingleTenant:
		if b.SQLitePath == "" {
			return fmt.Errorf("backend.sqlitePath is required for single_tenant mode")
		}
	case ModeMultiTenant:
		if b.PostgresDSN == "" {
			return fmt.Errorf("backend.postgresDsn is required for multi_tenant mode")
		}
	}

	return nil
}
