package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is the dotenv file read by Load when present.
const DefaultEnvFile = ".env"

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, GENCODE_CONFIG env, ./config.yaml, /etc/gencode/config.yaml)
//  3. .env file (GENCODE_ENV_FILE or ./.env); variables already set win
//  4. Environment variable overrides
//  5. File reference resolution (_file suffix)
//  6. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. GENCODE_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/gencode/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("GENCODE_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/gencode/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadEnvFile loads the dotenv file into the process environment. A missing
// default file is not an error; a missing explicit GENCODE_ENV_FILE is.
func loadEnvFile() error {
	path := os.Getenv("GENCODE_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides maps environment variables to config fields. Provider
// keys use the names the upstream vendors document.
func applyEnvOverrides(cfg *Config) error {
	var errs []error

	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = d
		}
	}
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	// Server.
	setInt("GENCODE_PORT", &cfg.Server.Port)
	if v := os.Getenv("GENCODE_MAX_BODY_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("GENCODE_MAX_BODY_SIZE: %w", err))
		} else {
			cfg.Server.MaxBodySize = n
		}
	}
	setBool("GENCODE_ERROR_TRAILER", &cfg.Server.ErrorTrailer)
	setDuration("GENCODE_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("GENCODE_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Providers.
	p := &cfg.Providers
	setString("GOOGLE_AI_API_KEY", &p.Gemini.APIKey)
	setString("GENCODE_GEMINI_BASE_URL", &p.Gemini.BaseURL)
	setDuration("GENCODE_GEMINI_TIMEOUT", &p.Gemini.Timeout)

	setString("OPENAI_API_KEY", &p.OpenAI.APIKey)
	setString("GENCODE_OPENAI_BASE_URL", &p.OpenAI.BaseURL)
	setDuration("GENCODE_OPENAI_TIMEOUT", &p.OpenAI.Timeout)

	setString("ANTHROPIC_API_KEY", &p.Anthropic.APIKey)
	setString("GENCODE_ANTHROPIC_BASE_URL", &p.Anthropic.BaseURL)
	setDuration("GENCODE_ANTHROPIC_TIMEOUT", &p.Anthropic.Timeout)
	setInt("GENCODE_ANTHROPIC_MAX_TOKENS", &p.Anthropic.MaxTokens)

	// Logging and metrics.
	setString("GENCODE_LOG_LEVEL", &cfg.Logging.Level)
	setString("GENCODE_LOG_FORMAT", &cfg.Logging.Format)
	setString("GENCODE_DEBUG", &cfg.Logging.Debug)
	setBool("GENCODE_METRICS_ENABLED", &cfg.Observability.Metrics.Enabled)

	return errors.Join(errs...)
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	providers := []struct {
		name string
		cfg  *ProviderConfig
	}{
		{"gemini", &cfg.Providers.Gemini},
		{"openai", &cfg.Providers.OpenAI},
		{"anthropic", &cfg.Providers.Anthropic.ProviderConfig},
	}
	for _, p := range providers {
		if p.cfg.APIKeyFile == "" || p.cfg.APIKey != "" {
			continue
		}
		val, err := readSecretFile(p.cfg.APIKeyFile)
		if err != nil {
			return fmt.Errorf("providers.%s.api_key_file: %w", p.name, err)
		}
		p.cfg.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
