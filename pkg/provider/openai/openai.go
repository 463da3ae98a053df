// Package openai implements the chat-style provider adapter against the
// OpenAI Chat Completions API using the official Go SDK.
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/provider"
)

// Provider implements provider.Provider for OpenAI. Messages are sent as
// [system, ...caller messages] with the caller's roles preserved.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	client     oai.Client
}

var _ provider.Provider = (*Provider)(nil)

// New creates an OpenAI provider. SDK retries are disabled.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	client := oai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Provider{cfg: cfg, httpClient: httpClient, client: client}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return kind.String() }

// Kind returns provider.KindOpenAI.
func (p *Provider) Kind() provider.Kind { return kind }

// Stream starts a streaming chat completion.
func (p *Provider) Stream(ctx context.Context, req *provider.Request) (<-chan provider.Event, error) {
	if p.cfg.APIKey == "" {
		return nil, missingKeyError()
	}

	params := oai.ChatCompletionNewParams{
		Model:    oai.ChatModel(req.Model),
		Messages: buildMessages(req),
	}

	debug.Log("providers", "upstream request", "provider", p.Name(), "model", req.Model,
		"messages", len(params.Messages))

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, mapError(err)
	}

	ch := make(chan provider.Event)
	go func() {
		defer close(ch)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			if !provider.Send(ctx, ch, Delta{Content: choice.Delta.Content}) {
				return
			}
			if choice.FinishReason != "" {
				if !provider.Send(ctx, ch, Finish{Reason: choice.FinishReason}) {
					return
				}
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

func buildMessages(req *provider.Request) []oai.ChatCompletionMessageParamUnion {
	msgs := make([]oai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	msgs = append(msgs, oai.SystemMessage(req.System))
	for _, m := range req.Messages {
		if m.Role == api.RoleAssistant {
			msgs = append(msgs, oai.AssistantMessage(m.Content))
		} else {
			msgs = append(msgs, oai.UserMessage(m.Content))
		}
	}
	return msgs
}
