// Package router maps a caller-supplied model identifier to the provider
// that serves it and the provider-native model name.
package router

import (
	"strings"

	"github.com/rhuss/gencode/pkg/provider"
)

// Routing prefixes. Identifiers without a known prefix go to Gemini.
const (
	PrefixOpenAI    = "openai/"
	PrefixAnthropic = "anthropic/"
)

// Route is the outcome of routing one model identifier.
type Route struct {
	Kind  provider.Kind
	Model string
}

// Resolve routes modelID. It is total: every string maps to exactly one
// provider. Only the leading prefix is removed, so "openai/openai/x"
// resolves to OpenAI with model "openai/x".
func Resolve(modelID string) Route {
	if m, ok := strings.CutPrefix(modelID, PrefixOpenAI); ok {
		return Route{Kind: provider.KindOpenAI, Model: m}
	}
	if m, ok := strings.CutPrefix(modelID, PrefixAnthropic); ok {
		return Route{Kind: provider.KindAnthropic, Model: m}
	}
	return Route{Kind: provider.KindGemini, Model: modelID}
}
