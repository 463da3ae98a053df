package gemini

import "time"

const (
	// DefaultBaseURL is the public Generative Language API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/"

	// APIVersion is the API version path segment the streaming endpoint
	// lives under.
	APIVersion = "v1beta"
)

// Config holds configuration for the Gemini adapter.
type Config struct {
	// APIKey is sent as x-goog-api-key. An empty key fails every Stream
	// call with provider_auth_error without contacting the upstream.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
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
