package openai

import "time"

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds configuration for the OpenAI adapter.
type Config struct {
	// APIKey is the bearer token. An empty key fails every Stream call
	// with provider_auth_error without contacting the upstream.
	APIKey string

	// BaseURL defaults to DefaultBaseURL. It must include the API
	// version path segment.
	BaseURL string

	// Timeout bounds one upstream call including the full stream.
	// Defaults to 10m.
	Timeout time.Duration
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Minute,
	}
}
