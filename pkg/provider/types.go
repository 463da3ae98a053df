package provider

import (
	"github.com/rhuss/gencode/pkg/api"
)

// Kind identifies one of the upstream protocols.
type Kind int

const (
	// KindGemini is the default provider. It takes one combined prompt.
	KindGemini Kind = iota

	// KindOpenAI is the chat-style provider with a leading system message.
	KindOpenAI

	// KindAnthropic is the chat-style provider with a top-level system field.
	KindAnthropic
)

// String returns the provider identifier for k.
func (k Kind) String() string {
	switch k {
	case KindGemini:
		return "gemini"
	case KindOpenAI:
		return "openai"
	case KindAnthropic:
		return "anthropic"
	default:
		return "unknown"
	}
}

// DisplayName returns the human-readable provider name used in error messages.
func (k Kind) DisplayName() string {
	switch k {
	case KindGemini:
		return "Gemini"
	case KindOpenAI:
		return "OpenAI"
	case KindAnthropic:
		return "Anthropic"
	default:
		return "Unknown"
	}
}

// Request is the backend-facing request. Adapters use the fields that fit
// their protocol: Prompt for combined-prompt providers, System and Messages
// for chat-style providers.
type Request struct {
	// Model is the provider-native model name, with any routing prefix removed.
	Model string

	// System is the instruction prompt.
	System string

	// Prompt is System combined with the active user content.
	Prompt string

	// Messages is the caller's conversation, unmodified.
	Messages []api.Message
}

// Event is one provider-native stream event. Each adapter package defines
// its own closed set of implementations; Source reports which provider
// produced the event.
type Event interface {
	Source() Kind
}
