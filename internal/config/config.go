// Package config provides configuration loading for trialsearchd.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SERVER_PORT, ELASTICSEARCH_URL, ANTHROPIC_API_KEY, ...)
//  2. YAML config file
//  3. Hardcoded defaults
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the daemon.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Elasticsearch ElasticsearchConfig `koanf:"elasticsearch"`
	Anthropic     AnthropicConfig     `koanf:"anthropic"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string `koanf:"cors_origins"`
}

// ElasticsearchConfig holds search-engine connection settings.
type ElasticsearchConfig struct {
	URL      string   `koanf:"url"`
	Username string   `koanf:"username"`
	Password Secret   `koanf:"password"`
	Index    string   `koanf:"index"`
	Timeout  Duration `koanf:"timeout"`
}

// AnthropicConfig holds entity-extraction API settings.
type AnthropicConfig struct {
	APIKey    Secret   `koanf:"api_key"`
	Model     string   `koanf:"model"`
	BaseURL   string   `koanf:"base_url"`
	MaxTokens int      `koanf:"max_tokens"`
	Timeout   Duration `koanf:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
			CORSOrigins:     []string{"http://localhost:5173"},
		},
		Elasticsearch: ElasticsearchConfig{
			URL:     "http://localhost:9200",
			Index:   "clinical_trials",
			Timeout: Duration(30 * time.Second),
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-20250514",
			BaseURL:   "https://api.anthropic.com",
			MaxTokens: 1024,
			Timeout:   Duration(60 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values that would prevent startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Elasticsearch.URL == "" {
		return fmt.Errorf("elasticsearch.url is required")
	}
	if c.Elasticsearch.Index == "" {
		return fmt.Errorf("elasticsearch.index is required")
	}
	if c.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("anthropic.max_tokens must be positive: %d", c.Anthropic.MaxTokens)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console: %q", c.Logging.Format)
	}
	return nil
}
