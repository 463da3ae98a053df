// Package gemini implements the default provider adapter against the
// Gemini streamGenerateContent API using the Google Gen AI Go SDK.
package gemini

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/provider"
)

// Provider implements provider.Provider for Gemini. It sends only the
// combined prompt as a single user turn.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	client     *genai.Client
}

var _ provider.Provider = (*Provider)(nil)

// New creates a Gemini provider. A missing API key is not an error here;
// it surfaces per request so the process can start without credentials.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("gemini: invalid base URL: %w", err)
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &streamTransport{base: http.DefaultTransport},
	}
	p := &Provider{cfg: cfg, httpClient: httpClient}
	if cfg.APIKey == "" {
		return p, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	p.client = client
	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return kind.String() }

// Kind returns provider.KindGemini.
func (p *Provider) Kind() provider.Kind { return kind }

// Stream starts a streamGenerateContent call. The first response is read
// before returning so that upstream rejections surface as a dispatch
// error rather than as a stream event.
func (p *Provider) Stream(ctx context.Context, req *provider.Request) (<-chan provider.Event, error) {
	if p.client == nil {
		return nil, missingKeyError()
	}

	debug.Log("providers", "upstream request", "provider", p.Name(), "model", req.Model)
	debug.Trace("providers", "upstream prompt", "provider", p.Name(), "prompt", req.Prompt)

	wire := &wireState{}
	ctx = withWireState(ctx, wire)
	next, stop := iter.Pull2(p.client.Models.GenerateContentStream(ctx, req.Model, genai.Text(req.Prompt), nil))

	resp, err, ok := next()
	if err != nil {
		stop()
		return nil, wire.mapError(err)
	}
	if !ok {
		if e := wire.upstreamError(); e != nil {
			stop()
			return nil, e
		}
	}

	ch := make(chan provider.Event)
	go func() {
		defer close(ch)
		defer stop()

		for ; ok; resp, err, ok = next() {
			if err != nil {
				if ctx.Err() == nil {
					provider.Send(ctx, ch, StreamError{Err: wire.mapError(err)})
				}
				return
			}
			if !sendResponse(ctx, ch, resp) {
				return
			}
		}

		if e := wire.upstreamError(); e != nil && ctx.Err() == nil {
			provider.Send(ctx, ch, StreamError{Err: e})
		}
	}()
	return ch, nil
}

// Close releases idle upstream connections.
func (p *Provider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
