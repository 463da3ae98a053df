package gemini

import "github.com/rhuss/gencode/pkg/provider"

// Event is the closed set of events emitted by the Gemini adapter:
// Chunk, Finish and StreamError.
type Event interface {
	provider.Event
	geminiEvent()
}

// Chunk carries the text of one streamed candidate chunk.
type Chunk struct {
	Text string
}

// Finish reports the candidate's finish reason (e.g. "STOP", "MAX_TOKENS").
type Finish struct {
	Reason string
}

// StreamError terminates the stream abnormally. It is always the last
// event on the channel.
type StreamError struct {
	Err error
}

func (Chunk) Source() provider.Kind       { return provider.KindGemini }
func (Finish) Source() provider.Kind      { return provider.KindGemini }
func (StreamError) Source() provider.Kind { return provider.KindGemini }

func (Chunk) geminiEvent()       {}
func (Finish) geminiEvent()      {}
func (StreamError) geminiEvent() {}
