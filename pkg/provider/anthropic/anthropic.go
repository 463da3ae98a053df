// Package anthropic implements the chat-style provider adapter against the
// Anthropic Messages API using the official Go SDK.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/provider"
)

// Provider implements provider.Provider for Anthropic. The system prompt
// is sent as the top-level system field; only user-role messages are
// forwarded.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	client     sdk.Client
}

var _ provider.Provider = (*Provider)(nil)

// New creates an Anthropic provider. SDK retries are disabled.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.MaxTokens < 0 {
		return nil, fmt.Errorf("anthropic: max tokens must not be negative, got %d", cfg.MaxTokens)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	client := sdk.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithHeader("anthropic-version", APIVersion),
		option.WithMaxRetries(0),
	)

	return &Provider{cfg: cfg, httpClient: httpClient, client: client}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return kind.String() }

// Kind returns provider.KindAnthropic.
func (p *Provider) Kind() provider.Kind { return kind }

// Stream starts a streaming Messages API call.
func (p *Provider) Stream(ctx context.Context, req *provider.Request) (<-chan provider.Event, error) {
	if p.cfg.APIKey == "" {
		return nil, missingKeyError()
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(p.cfg.MaxTokens),
		Messages:  userMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	debug.Log("providers", "upstream request", "provider", p.Name(), "model", req.Model,
		"messages", len(params.Messages))

	stream := p.client.Messages.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, mapError(err)
	}

	ch := make(chan provider.Event)
	go func() {
		defer close(ch)
		defer stream.Close()

		for stream.Next() {
			ev, ok := translate(stream.Current())
			if !ok {
				continue
			}
			if !provider.Send(ctx, ch, ev) {
				return
			}
			if _, done := ev.(MessageStop); done {
				return
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			provider.Send(ctx, ch, StreamError{Err: mapError(err)})
		}
	}()
	return ch, nil
}

// Close releases idle upstream connections.
func (p *Provider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// userMessages keeps the user-role subsequence in order. Assistant turns
// are dropped.
func userMessages(msgs []api.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == api.RoleUser {
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	return out
}
