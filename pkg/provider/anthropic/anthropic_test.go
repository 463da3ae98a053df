package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/provider"
)

const textStream = `event: message_start
data: {"type":"message_start","message":{"id":"msg_1","model":"claude-3.5-sonnet"}}

event: content_block_start
data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}

event: ping
data: {"type":"ping"}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"function"}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" App"}}

event: content_block_stop
data: {"type":"content_block_stop","index":0}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn"}}

event: message_stop
data: {"type":"message_stop"}

`

// sentRequest is the part of the Messages API request the tests inspect.
type sentRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Stream    bool   `json:"stream"`
	System    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func newTestProvider(t *testing.T, cfg Config, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "sk-ant-test"
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func TestStream_EventSequence(t *testing.T) {
	var got sentRequest
	var gotHeaders http.Header

	p := newTestProvider(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, textStream)
	})

	ch, err := p.Stream(context.Background(), &provider.Request{
		Model:  "claude-3.5-sonnet",
		System: "SYS",
		Messages: []api.Message{
			{Role: api.RoleUser, Content: "first"},
			{Role: api.RoleAssistant, Content: "old code"},
			{Role: api.RoleUser, Content: "second"},
		},
	})
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	// Keepalives may or may not reach the adapter; they carry nothing.
	var events []provider.Event
	for ev := range ch {
		if _, ok := ev.(Ping); !ok {
			events = append(events, ev)
		}
	}

	want := []provider.Event{
		MessageStart{ID: "msg_1", Model: "claude-3.5-sonnet"},
		ContentBlockStart{Index: 0, BlockType: "text"},
		ContentBlockDelta{Index: 0, DeltaType: "text_delta", Text: "function"},
		ContentBlockDelta{Index: 0, DeltaType: "text_delta", Text: " App"},
		ContentBlockStop{Index: 0},
		MessageDelta{StopReason: "end_turn"},
		MessageStop{},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events %+v, want %d", len(events), events, len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event[%d] = %#v, want %#v", i, events[i], want[i])
		}
	}

	if gotHeaders.Get("x-api-key") != "sk-ant-test" || gotHeaders.Get("anthropic-version") != APIVersion {
		t.Errorf("headers = %v", gotHeaders)
	}
	if len(got.System) != 1 || got.System[0].Text != "SYS" {
		t.Errorf("system = %+v", got.System)
	}
	if got.MaxTokens != DefaultMaxTokens || !got.Stream || got.Model != "claude-3.5-sonnet" {
		t.Errorf("request = %+v", got)
	}
	var texts []string
	for _, m := range got.Messages {
		if m.Role != "user" {
			t.Errorf("unexpected role %q", m.Role)
		}
		for _, c := range m.Content {
			texts = append(texts, c.Text)
		}
	}
	if strings.Join(texts, "|") != "first|second" {
		t.Errorf("message texts = %q, want the user-role subsequence", texts)
	}
}

func TestStream_ConfiguredMaxTokens(t *testing.T) {
	var got sentRequest
	p := newTestProvider(t, Config{MaxTokens: 1024}, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	})

	ch, err := p.Stream(context.Background(), &provider.Request{Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	for range ch {
	}
	if got.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d, want 1024", got.MaxTokens)
	}
}

func TestStream_ErrorEvent(t *testing.T) {
	p := newTestProvider(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"x\"}}\n\n")
		io.WriteString(w, "event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n")
		io.WriteString(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	})

	ch, err := p.Stream(context.Background(), &provider.Request{Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	var events []provider.Event
	for ev := range ch {
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("events = %+v", events)
	}
	se, ok := events[1].(StreamError)
	if !ok {
		t.Fatalf("last event = %T", events[1])
	}
	var apiErr *api.APIError
	if !errors.As(se.Err, &apiErr) || apiErr.Type != api.ErrorTypeProviderUnavailable {
		t.Errorf("stream error = %v", se.Err)
	}
}

func TestStream_HTTPErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType api.ErrorType
	}{
		{"invalid key", 401, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, api.ErrorTypeProviderAuth},
		{"rate limited", 429, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, api.ErrorTypeProviderRateLimited},
		{"overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, api.ErrorTypeProviderUnavailable},
		{"bad request", 400, `{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`, api.ErrorTypeUnknownProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := p.Stream(context.Background(), &provider.Request{Model: "m"})

			var apiErr *api.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.APIError, got %v", err)
			}
			if apiErr.Type != tt.wantType || apiErr.Provider != "anthropic" || apiErr.StatusCode != tt.status {
				t.Errorf("error = %+v", apiErr)
			}
			if !strings.HasPrefix(apiErr.Message, "Anthropic Error (") {
				t.Errorf("message = %q", apiErr.Message)
			}
		})
	}
}

func TestStream_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	p, _ := New(Config{APIKey: "k", BaseURL: addr})
	_, err := p.Stream(context.Background(), &provider.Request{Model: "m"})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Provider != "anthropic" {
		t.Fatalf("expected an anthropic *api.APIError, got %v", err)
	}
}

func TestStream_MissingKey(t *testing.T) {
	p, err := New(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Stream(context.Background(), &provider.Request{Model: "m"})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeProviderAuth {
		t.Fatalf("expected provider_auth_error, got %v", err)
	}
}

func TestNew_NegativeMaxTokens(t *testing.T) {
	if _, err := New(Config{MaxTokens: -1}); err == nil {
		t.Error("expected error for negative max tokens")
	}
}
