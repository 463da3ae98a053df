// Package config provides unified configuration for the gencode gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. .env file, loaded into the process environment
//  4. Environment variable overrides (GENCODE_ prefix and provider key names)
//  5. File reference resolution (_file suffix fields)
//  6. Validation
package config

import "time"

// Config holds all configuration for the gencode gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Providers     ProvidersConfig     `yaml:"providers"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 3000
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 1 MiB
	ErrorTrailer    bool          `yaml:"error_trailer"`    // default: false
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// ProvidersConfig holds one section per upstream provider.
type ProvidersConfig struct {
	Gemini    ProviderConfig  `yaml:"gemini"`
	OpenAI    ProviderConfig  `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// ProviderConfig holds the settings shared by every provider.
//
// An empty api_key is valid: the gateway starts, and requests routed to
// that provider fail with provider_auth_error.
type ProviderConfig struct {
	APIKey     string        `yaml:"api_key"`
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	BaseURL    string        `yaml:"base_url"`     // default: the public endpoint
	Timeout    time.Duration `yaml:"timeout"`      // default: 10m
}

// AnthropicConfig adds the response token cap required by the Messages API.
type AnthropicConfig struct {
	ProviderConfig `yaml:",inline"`
	MaxTokens      int `yaml:"max_tokens"` // default: 4096
}

// LoggingConfig holds process logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // TRACE, DEBUG, INFO, WARN, ERROR; default: INFO
	Format string `yaml:"format"` // "text" or "json"; default: "text"
	Debug  string `yaml:"debug"`  // comma-separated debug categories
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			MaxBodySize:     1 << 20,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Providers: ProvidersConfig{
			Gemini: ProviderConfig{
				BaseURL: "https://generativelanguage.googleapis.com",
				Timeout: 10 * time.Minute,
			},
			OpenAI: ProviderConfig{
				BaseURL: "https://api.openai.com/v1",
				Timeout: 10 * time.Minute,
			},
			Anthropic: AnthropicConfig{
				ProviderConfig: ProviderConfig{
					BaseURL: "https://api.anthropic.com",
					Timeout: 10 * time.Minute,
				},
				MaxTokens: 4096,
			},
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
