package anthropic

import "time"

const (
	// DefaultBaseURL is the public Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultMaxTokens caps each response when no limit is configured.
	DefaultMaxTokens = 4096

	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic adapter.
type Config struct {
	// APIKey is sent as x-api-key. An empty key fails every Stream call
	// with provider_auth_error without contacting the upstream.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// MaxTokens defaults to DefaultMaxTokens.
	MaxTokens int

	// Timeout bounds one upstream call including the full stream.
	// Defaults to 10m.
	Timeout time.Duration
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		MaxTokens: DefaultMaxTokens,
		Timeout:   10 * time.Minute,
	}
}
