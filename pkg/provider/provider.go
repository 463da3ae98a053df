package provider

import (
	"context"
)

// Provider abstracts one upstream text-generation service.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string

	// Kind returns the routing kind this provider serves.
	Kind() Kind

	// Stream issues the upstream streaming call. Failures that occur before
	// the upstream body starts streaming are returned directly as
	// *api.APIError. Otherwise the returned channel receives the provider's
	// native events in upstream order and is closed by the provider when
	// the stream completes or errors. The channel is unbuffered and every
	// send honors ctx, so a consumer that stops reading and cancels ctx
	// releases the provider.
	Stream(ctx context.Context, req *Request) (<-chan Event, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}

// Send delivers ev on ch unless ctx is done first. It reports whether the
// event was delivered.
func Send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
