package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestAPIErrorInterface(t *testing.T) {
	var _ error = &APIError{}
}

func TestAPIErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			"with param",
			&APIError{Type: ErrorTypeSchemaViolation, Param: "messages", Message: "is required"},
			"schema_violation: is required (param: messages)",
		},
		{
			"without param",
			&APIError{Type: ErrorTypeProviderUnavailable, Message: "upstream down"},
			"provider_unavailable: upstream down",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewProviderErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"with status", 401, "OpenAI Error (401): invalid api key"},
		{"without status", 0, "OpenAI Error: invalid api key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewProviderError(ErrorTypeProviderAuth, "openai", "OpenAI", tt.status, "invalid api key")
			if err.Message != tt.want {
				t.Errorf("Message = %q, want %q", err.Message, tt.want)
			}
			if err.Provider != "openai" {
				t.Errorf("Provider = %q, want %q", err.Provider, "openai")
			}
			if !err.IsProviderError() {
				t.Error("expected IsProviderError() to be true")
			}
		})
	}
}

func TestErrorTypeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{401, ErrorTypeProviderAuth},
		{403, ErrorTypeProviderAuth},
		{429, ErrorTypeProviderRateLimited},
		{500, ErrorTypeProviderUnavailable},
		{503, ErrorTypeProviderUnavailable},
		{529, ErrorTypeProviderUnavailable},
		{400, ErrorTypeUnknownProviderError},
		{404, ErrorTypeUnknownProviderError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := ErrorTypeForStatus(tt.status); got != tt.want {
				t.Errorf("ErrorTypeForStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	existing := NewProviderError(ErrorTypeProviderRateLimited, "gemini", "Gemini", 429, "slow down")

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"deadline", fmt.Errorf("read: %w", context.DeadlineExceeded), ErrorTypeProviderUnavailable},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ErrorTypeProviderUnavailable},
		{"plain error", errors.New("boom"), ErrorTypeUnknownProviderError},
		{"already classified", fmt.Errorf("wrapped: %w", existing), ErrorTypeProviderRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTransportError("gemini", "Gemini", tt.err)
			if got.Type != tt.want {
				t.Errorf("Type = %q, want %q", got.Type, tt.want)
			}
			if got.Provider != "gemini" {
				t.Errorf("Provider = %q, want %q", got.Provider, "gemini")
			}
		})
	}
}

func TestAPIErrorJSONShape(t *testing.T) {
	err := NewProviderError(ErrorTypeProviderAuth, "openai", "OpenAI", 401, "bad key")
	err.Cause = errors.New("hidden")

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal: %v", marshalErr)
	}

	var m map[string]any
	if unmarshalErr := json.Unmarshal(data, &m); unmarshalErr != nil {
		t.Fatalf("Unmarshal: %v", unmarshalErr)
	}

	if m["error"] != "OpenAI Error (401): bad key" {
		t.Errorf("error = %v", m["error"])
	}
	if m["provider"] != "openai" {
		t.Errorf("provider = %v", m["provider"])
	}
	if m["status"] != float64(401) {
		t.Errorf("status = %v", m["status"])
	}
	if _, ok := m["param"]; ok {
		t.Error("empty param should be omitted from JSON")
	}
	if _, ok := m["Cause"]; ok {
		t.Error("cause must not be serialized")
	}
}
