// Package mockupstream is a deterministic stand-in for the three upstream
// generation APIs. It speaks the Gemini streamGenerateContent, OpenAI Chat
// Completions and Anthropic Messages streaming protocols, which lets the
// gateway run end to end without credentials or network access.
//
// The model name selects the scenario:
//
//	*fail-auth*      upstream rejects the API key
//	*fail-rate*      upstream rate limit
//	*fail-midstream* one fragment, then an in-stream error
//	anything else    the configured fragments, then a normal finish
package mockupstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultFragments is the text streamed when no fragments are configured.
var DefaultFragments = []string{
	"export",
	" default",
	" function App() {\n  return <div className=\"p-4\">Hello</div>;\n}\n",
}

// Protocol identifies which upstream API a request used.
type Protocol string

const (
	ProtocolGemini    Protocol = "gemini"
	ProtocolOpenAI    Protocol = "openai"
	ProtocolAnthropic Protocol = "anthropic"
)

// Request is one recorded upstream call.
type Request struct {
	Protocol Protocol
	Model    string
	APIKey   string
	Body     []byte
}

// Options configures the mock.
type Options struct {
	// Fragments replaces DefaultFragments.
	Fragments []string

	// Delay is inserted before every fragment.
	Delay time.Duration

	// APIKey, when set, is required on every request.
	APIKey string
}

// Server is an http.Handler serving all three protocols.
type Server struct {
	opts Options
	mux  *http.ServeMux

	mu       sync.Mutex
	requests []Request
}

// New creates a mock upstream.
func New(opts Options) *Server {
	if len(opts.Fragments) == 0 {
		opts.Fragments = DefaultFragments
	}
	s := &Server{opts: opts, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /v1beta/models/{action}", s.handleGemini)
	s.mux.HandleFunc("POST /v1/chat/completions", s.handleOpenAI)
	s.mux.HandleFunc("POST /v1/messages", s.handleAnthropic)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run listens on addr and serves until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("mock upstream starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("mock upstream shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Requests returns a copy of the recorded upstream calls.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) record(p Protocol, model, key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{Protocol: p, Model: model, APIKey: key, Body: body})
}

type scenario int

const (
	scenarioOK scenario = iota
	scenarioAuth
	scenarioRate
	scenarioMidStream
)

func (s *Server) scenarioFor(model, key string) scenario {
	switch {
	case s.opts.APIKey != "" && key != s.opts.APIKey:
		return scenarioAuth
	case strings.Contains(model, "fail-auth"):
		return scenarioAuth
	case strings.Contains(model, "fail-rate"):
		return scenarioRate
	case strings.Contains(model, "fail-midstream"):
		return scenarioMidStream
	}
	return scenarioOK
}

// sseWriter writes one SSE event at a time and flushes after each.
type sseWriter struct {
	w     http.ResponseWriter
	rc    *http.ResponseController
	delay time.Duration
}

func newSSEWriter(w http.ResponseWriter, delay time.Duration) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	return &sseWriter{w: w, rc: http.NewResponseController(w), delay: delay}
}

func (s *sseWriter) event(name string, payload any) {
	data, _ := json.Marshal(payload)
	if name != "" {
		fmt.Fprintf(s.w, "event: %s\n", name)
	}
	fmt.Fprintf(s.w, "data: %s\n\n", data)
	s.rc.Flush()
}

func (s *sseWriter) raw(line string) {
	fmt.Fprint(s.w, line)
	s.rc.Flush()
}

func (s *sseWriter) pause() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readBody(r *http.Request) []byte {
	b, _ := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	return b
}
