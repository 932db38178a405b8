package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config files larger than this are rejected.
const maxConfigFileSize = 1024 * 1024

// Load loads configuration from an optional YAML file, then overrides with
// environment variables.
//
// Environment variables use underscore separators and are uppercased; the
// first underscore splits section from field:
//
//	SERVER_PORT              -> server.port
//	ELASTICSEARCH_URL        -> elasticsearch.url
//	ANTHROPIC_API_KEY        -> anthropic.api_key
//	LOGGING_LEVEL            -> logging.level
//
// configPath may be empty, in which case only defaults and environment
// variables apply. A missing file at an explicitly given path is an error;
// unreadable or oversized files are rejected.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envTransform maps SECTION_FIELD_NAME to section.field_name. Only variables
// whose section prefix matches a known config section are considered, so
// unrelated environment (PATH, HOME, ...) never leaks into the tree.
func envTransform(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) != 2 {
		return ""
	}

	switch parts[0] {
	case "server", "elasticsearch", "anthropic", "logging":
		return parts[0] + "." + parts[1]
	}
	return ""
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
