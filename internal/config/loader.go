package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} and ${VAR:-default} references.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Load reads a YAML configuration file, substitutes environment
// variable references, overlays the result on the defaults, and
// validates it. An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := parse(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse(data []byte, cfg *Config) error {
	substituted := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(substituted), cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	return nil
}

// substituteEnvVars replaces ${VAR} with the value of VAR and
// ${VAR:-default} with the value of VAR or the default when unset.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name := groups[1]
		fallback := groups[2]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return fallback
	})
}
