package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// envVars lists every variable Load reads.
var envVars = []string{
	"GENCODE_CONFIG", "GENCODE_ENV_FILE",
	"GENCODE_PORT", "GENCODE_MAX_BODY_SIZE", "GENCODE_ERROR_TRAILER",
	"GENCODE_READ_TIMEOUT", "GENCODE_SHUTDOWN_TIMEOUT",
	"GOOGLE_AI_API_KEY", "GENCODE_GEMINI_BASE_URL", "GENCODE_GEMINI_TIMEOUT",
	"OPENAI_API_KEY", "GENCODE_OPENAI_BASE_URL", "GENCODE_OPENAI_TIMEOUT",
	"ANTHROPIC_API_KEY", "GENCODE_ANTHROPIC_BASE_URL", "GENCODE_ANTHROPIC_TIMEOUT",
	"GENCODE_ANTHROPIC_MAX_TOKENS",
	"GENCODE_LOG_LEVEL", "GENCODE_LOG_FORMAT", "GENCODE_DEBUG", "GENCODE_METRICS_ENABLED",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 3000 {
		t.Errorf("default server.port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != 1<<20 {
		t.Errorf("default server.max_body_size = %d, want 1 MiB", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ErrorTrailer {
		t.Error("default server.error_trailer = true, want false")
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default server.read_timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Providers.Anthropic.MaxTokens != 4096 {
		t.Errorf("default providers.anthropic.max_tokens = %d, want 4096", cfg.Providers.Anthropic.MaxTokens)
	}
	if cfg.Providers.OpenAI.Timeout != 10*time.Minute {
		t.Errorf("default providers.openai.timeout = %v, want 10m", cfg.Providers.OpenAI.Timeout)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("default metrics = %+v", cfg.Observability.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearEnv(t)
	yamlContent := `
server:
  port: 9090
  max_body_size: 2048
  error_trailer: true
  read_timeout: 60s
  shutdown_timeout: 5s
providers:
  gemini:
    api_key: g-key
    base_url: http://localhost:9999
    timeout: 2m
  openai:
    api_key: sk-test
  anthropic:
    api_key: a-key
    base_url: http://localhost:9998
    max_tokens: 1024
logging:
  level: DEBUG
  format: json
  debug: providers,streaming
observability:
  metrics:
    enabled: false
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != 2048 {
		t.Errorf("server.max_body_size = %d, want 2048", cfg.Server.MaxBodySize)
	}
	if !cfg.Server.ErrorTrailer {
		t.Error("server.error_trailer = false, want true")
	}
	if cfg.Server.ReadTimeout != 60*time.Second || cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("server timeouts = %v/%v", cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Providers.Gemini.APIKey != "g-key" || cfg.Providers.Gemini.BaseURL != "http://localhost:9999" {
		t.Errorf("providers.gemini = %+v", cfg.Providers.Gemini)
	}
	if cfg.Providers.Gemini.Timeout != 2*time.Minute {
		t.Errorf("providers.gemini.timeout = %v, want 2m", cfg.Providers.Gemini.Timeout)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Errorf("providers.openai.api_key = %q", cfg.Providers.OpenAI.APIKey)
	}
	// Unset fields keep their defaults.
	if cfg.Providers.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("providers.openai.base_url = %q, want default", cfg.Providers.OpenAI.BaseURL)
	}
	if cfg.Providers.Anthropic.APIKey != "a-key" || cfg.Providers.Anthropic.MaxTokens != 1024 {
		t.Errorf("providers.anthropic = %+v", cfg.Providers.Anthropic)
	}
	if cfg.Logging.Level != "DEBUG" || cfg.Logging.Format != "json" || cfg.Logging.Debug != "providers,streaming" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Observability.Metrics.Enabled {
		t.Error("observability.metrics.enabled = true, want false")
	}
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	yamlContent := `
server:
  port: 9090
providers:
  gemini:
    api_key: from-yaml
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	t.Setenv("GENCODE_PORT", "7070")
	t.Setenv("GENCODE_ERROR_TRAILER", "true")
	t.Setenv("GOOGLE_AI_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANTHROPIC_API_KEY", "a-env")
	t.Setenv("GENCODE_OPENAI_BASE_URL", "http://proxy:8080/v1")
	t.Setenv("GENCODE_ANTHROPIC_MAX_TOKENS", "512")
	t.Setenv("GENCODE_GEMINI_TIMEOUT", "45s")
	t.Setenv("GENCODE_LOG_LEVEL", "TRACE")
	t.Setenv("GENCODE_METRICS_ENABLED", "false")

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Env overrides YAML.
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070 (env override)", cfg.Server.Port)
	}
	if cfg.Providers.Gemini.APIKey != "from-env" {
		t.Errorf("providers.gemini.api_key = %q, want env override", cfg.Providers.Gemini.APIKey)
	}
	if !cfg.Server.ErrorTrailer {
		t.Error("server.error_trailer = false, want true")
	}
	if cfg.Providers.OpenAI.APIKey != "sk-env" || cfg.Providers.OpenAI.BaseURL != "http://proxy:8080/v1" {
		t.Errorf("providers.openai = %+v", cfg.Providers.OpenAI)
	}
	if cfg.Providers.Anthropic.APIKey != "a-env" || cfg.Providers.Anthropic.MaxTokens != 512 {
		t.Errorf("providers.anthropic = %+v", cfg.Providers.Anthropic)
	}
	if cfg.Providers.Gemini.Timeout != 45*time.Second {
		t.Errorf("providers.gemini.timeout = %v, want 45s", cfg.Providers.Gemini.Timeout)
	}
	if cfg.Logging.Level != "TRACE" {
		t.Errorf("logging.level = %q, want TRACE", cfg.Logging.Level)
	}
	if cfg.Observability.Metrics.Enabled {
		t.Error("observability.metrics.enabled = true, want false")
	}
}

func TestEnvOverrideInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENCODE_CONFIG", writeTemp(t, "config-*.yaml", "{}\n"))
	t.Setenv("GENCODE_PORT", "not-a-number")
	t.Setenv("GENCODE_ANTHROPIC_TIMEOUT", "forever")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() expected error for invalid env values")
	}
	for _, want := range []string{"GENCODE_PORT", "GENCODE_ANTHROPIC_TIMEOUT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not overwrite variables that exist, even empty ones.
	os.Unsetenv("ANTHROPIC_API_KEY")
	os.Unsetenv("GENCODE_PORT")

	envFile := writeTemp(t, "dotenv-*", "ANTHROPIC_API_KEY=a-dotenv\nGENCODE_PORT=4040\n")
	t.Setenv("GENCODE_ENV_FILE", envFile)
	t.Setenv("GENCODE_CONFIG", writeTemp(t, "config-*.yaml", "{}\n"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Providers.Anthropic.APIKey != "a-dotenv" {
		t.Errorf("providers.anthropic.api_key = %q, want value from env file", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.Server.Port != 4040 {
		t.Errorf("server.port = %d, want 4040", cfg.Server.Port)
	}
}

func TestEnvFileMissingExplicit(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENCODE_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("GENCODE_CONFIG", writeTemp(t, "config-*.yaml", "{}\n"))

	if _, err := Load(""); err == nil {
		t.Fatal("Load() expected error for missing explicit env file")
	}
}

func TestFileReference(t *testing.T) {
	clearEnv(t)
	secretFile := writeTemp(t, "secret-*.txt", "  sk-from-file-123  \n")
	anthropicFile := writeTemp(t, "secret-*.txt", "a-from-file\n")

	yamlContent := `
providers:
  openai:
    api_key_file: ` + secretFile + `
  anthropic:
    api_key_file: ` + anthropicFile + `
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-from-file-123" {
		t.Errorf("providers.openai.api_key = %q, want trimmed file content", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Providers.Anthropic.APIKey != "a-from-file" {
		t.Errorf("providers.anthropic.api_key = %q, want file content", cfg.Providers.Anthropic.APIKey)
	}
}

func TestFileReferenceDoesNotOverrideExplicitValue(t *testing.T) {
	clearEnv(t)
	secretFile := writeTemp(t, "secret-*.txt", "sk-from-file")

	yamlContent := `
providers:
  gemini:
    api_key: sk-explicit
    api_key_file: ` + secretFile + `
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Providers.Gemini.APIKey != "sk-explicit" {
		t.Errorf("providers.gemini.api_key = %q, want explicit value", cfg.Providers.Gemini.APIKey)
	}
}

func TestFileReferenceMissingFile(t *testing.T) {
	clearEnv(t)
	yamlContent := `
providers:
  gemini:
    api_key_file: /nonexistent/secret
`
	tmpFile := writeTemp(t, "config-*.yaml", yamlContent)

	_, err := Load(tmpFile)
	if err == nil || !strings.Contains(err.Error(), "providers.gemini.api_key_file") {
		t.Errorf("Load() error = %v, want field path in error", err)
	}
}

func TestFileDiscovery(t *testing.T) {
	clearEnv(t)

	// Explicit path.
	tmpFile := writeTemp(t, "config-*.yaml", "server:\n  port: 1111\n")
	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load(explicit) error: %v", err)
	}
	if cfg.Server.Port != 1111 {
		t.Errorf("explicit path: server.port = %d, want 1111", cfg.Server.Port)
	}

	// GENCODE_CONFIG env var.
	envFile := writeTemp(t, "envconfig-*.yaml", "server:\n  port: 2222\n")
	t.Setenv("GENCODE_CONFIG", envFile)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(GENCODE_CONFIG) error: %v", err)
	}
	if cfg.Server.Port != 2222 {
		t.Errorf("GENCODE_CONFIG: server.port = %d, want 2222", cfg.Server.Port)
	}

	// Explicit path beats GENCODE_CONFIG.
	cfg, err = Load(tmpFile)
	if err != nil {
		t.Fatalf("Load(explicit over env) error: %v", err)
	}
	if cfg.Server.Port != 1111 {
		t.Errorf("explicit over env: server.port = %d, want 1111", cfg.Server.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	tmpFile := writeTemp(t, "config-*.yaml", "server: [unclosed\n")

	if _, err := Load(tmpFile); err == nil {
		t.Fatal("Load() expected error for malformed YAML")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port must be between",
		},
		{
			name:    "port too large",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be between",
		},
		{
			name:    "zero body size",
			modify:  func(c *Config) { c.Server.MaxBodySize = 0 },
			wantErr: "server.max_body_size",
		},
		{
			name:    "relative base url",
			modify:  func(c *Config) { c.Providers.OpenAI.BaseURL = "api.openai.com/v1" },
			wantErr: "providers.openai.base_url",
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Providers.Gemini.Timeout = -time.Second },
			wantErr: "providers.gemini.timeout",
		},
		{
			name:    "zero max tokens",
			modify:  func(c *Config) { c.Providers.Anthropic.MaxTokens = 0 },
			wantErr: "providers.anthropic.max_tokens",
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "metrics path",
			modify:  func(c *Config) { c.Observability.Metrics.Path = "metrics" },
			wantErr: "observability.metrics.path",
		},
		{
			name:    "missing api keys are valid",
			modify:  func(c *Config) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidationJoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("Validate() error = %q, want both failures reported", err)
	}
}

// writeTemp creates a temporary file with the given content and returns its path.
// The file is automatically cleaned up when the test finishes.
func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		t.Fatalf("writing temp file: %v", err)
	}
	f.Close()
	return f.Name()
}
