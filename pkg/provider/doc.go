// Package provider defines the capability interface shared by the upstream
// text-generation adapters. Each adapter package (gemini, openai, anthropic)
// speaks its own protocol and emits its own closed set of event types; the
// event shapes are not unified here. Unification into plain text happens in
// package stream.
package provider
