// Package gateway orchestrates one code generation: it routes the model
// identifier to a provider, builds the prompt, streams the provider's
// events through the normalizer and writes the resulting fragments.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/observability"
	"github.com/rhuss/gencode/pkg/prompt"
	"github.com/rhuss/gencode/pkg/provider"
	"github.com/rhuss/gencode/pkg/router"
	"github.com/rhuss/gencode/pkg/stream"
	"github.com/rhuss/gencode/pkg/transport"
)

// Gateway implements transport.CodeGenerator and transport.ModelLister.
// It holds no per-request state and is safe for concurrent use.
type Gateway struct {
	providers map[provider.Kind]provider.Provider
	system    string
}

var (
	_ transport.CodeGenerator = (*Gateway)(nil)
	_ transport.ModelLister   = (*Gateway)(nil)
)

// Option configures a Gateway.
type Option func(*Gateway)

// WithSystemPrompt replaces the instruction prompt. Intended for tests.
func WithSystemPrompt(s string) Option {
	return func(g *Gateway) { g.system = s }
}

// New creates a Gateway serving the given providers, at most one per kind.
func New(providers []provider.Provider, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		providers: make(map[provider.Kind]provider.Provider, len(providers)),
		system:    prompt.System,
	}
	for _, p := range providers {
		if _, dup := g.providers[p.Kind()]; dup {
			return nil, fmt.Errorf("gateway: duplicate provider for %s", p.Kind())
		}
		g.providers[p.Kind()] = p
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// GenerateCode streams generated code for req into w. Errors raised before
// the first fragment are *api.APIError values describing the dispatch
// failure; later errors describe why the stream was cut short.
func (g *Gateway) GenerateCode(ctx context.Context, req *api.GenerationRequest, w transport.FragmentWriter) error {
	route := router.Resolve(req.ModelID)
	name := route.Kind.String()
	label := router.MetricLabel(req.ModelID)

	p, ok := g.providers[route.Kind]
	if !ok {
		return api.NewProviderError(api.ErrorTypeProviderUnavailable, name, route.Kind.DisplayName(), 0,
			"provider is not configured")
	}

	// Cancelling on return releases the provider goroutine if the
	// normalizer stops reading early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pr := prompt.Build(g.system, req.Messages)
	debug.Log("providers", "dispatching", "provider", name, "model", route.Model, "messages", len(req.Messages))

	start := time.Now()
	events, err := p.Stream(ctx, &provider.Request{
		Model:    route.Model,
		System:   pr.System,
		Prompt:   pr.Combined,
		Messages: pr.Messages,
	})
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(name, label, observability.OutcomeDispatch).Inc()
		return classify(route.Kind, err)
	}

	var (
		writeErr error
		written  int
	)
	n, err := stream.Normalize(ctx, events, func(text string) error {
		if err := w.WriteFragment(ctx, text); err != nil {
			writeErr = err
			return err
		}
		if written == 0 {
			observability.RecordFirstFragment(name, label, start)
		}
		written++
		observability.FragmentsTotal.WithLabelValues(name).Inc()
		debug.Trace("streaming", "fragment", "provider", name, "text", text)
		return nil
	})

	outcome := observability.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		outcome = observability.OutcomeCancelled
	case n == 0:
		outcome = observability.OutcomeDispatch
	default:
		outcome = observability.OutcomeTruncated
	}
	observability.ProviderRequestsTotal.WithLabelValues(name, label, outcome).Inc()

	if err != nil && err != writeErr {
		return classify(route.Kind, err)
	}
	return err
}

// ListModels returns the model catalogue.
func (g *Gateway) ListModels(context.Context) []router.Model {
	return router.Catalog()
}

// Close releases all providers.
func (g *Gateway) Close() error {
	var errs []error
	for _, p := range g.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// classify makes sure err carries a classification. Context errors pass
// through unchanged so the transport can recognize cancellation.
func classify(kind provider.Kind, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) || errors.Is(err, context.Canceled) {
		return err
	}
	return api.ClassifyTransportError(kind.String(), kind.DisplayName(), err)
}
