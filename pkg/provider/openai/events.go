package openai

import "github.com/rhuss/gencode/pkg/provider"

// Event is the closed set of events emitted by the OpenAI adapter:
// Delta, Finish and StreamError.
type Event interface {
	provider.Event
	openaiEvent()
}

// Delta carries the content of one chat completion chunk. Content may be
// empty (role-only or usage chunks).
type Delta struct {
	Content string
}

// Finish reports the choice's finish reason (e.g. "stop", "length").
type Finish struct {
	Reason string
}

// StreamError terminates the stream abnormally. It is always the last
// event on the channel.
type StreamError struct {
	Err error
}

func (Delta) Source() provider.Kind       { return provider.KindOpenAI }
func (Finish) Source() provider.Kind      { return provider.KindOpenAI }
func (StreamError) Source() provider.Kind { return provider.KindOpenAI }

func (Delta) openaiEvent()       {}
func (Finish) openaiEvent()      {}
func (StreamError) openaiEvent() {}
