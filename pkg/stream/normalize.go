// Package stream reduces provider-native event streams to a single ordered
// sequence of text fragments.
package stream

import (
	"context"
	"fmt"

	"github.com/rhuss/gencode/pkg/provider"
	"github.com/rhuss/gencode/pkg/provider/anthropic"
	"github.com/rhuss/gencode/pkg/provider/gemini"
	"github.com/rhuss/gencode/pkg/provider/openai"
)

// TextDeltaType is the Anthropic delta type that carries generated text.
const TextDeltaType = "text_delta"

// UnknownEventError is returned by Project for an event type it does not
// recognize.
type UnknownEventError struct {
	Event provider.Event
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown %s stream event %T", e.Event.Source(), e.Event)
}

// Project maps one provider event to the text it contributes. Events that
// carry no text project to "". A StreamError projects to its error.
//
// Every variant of every adapter is listed. Adding a variant without
// extending this switch makes Project fail at runtime with
// *UnknownEventError.
func Project(ev provider.Event) (string, error) {
	switch e := ev.(type) {
	// gemini
	case gemini.Chunk:
		return e.Text, nil
	case gemini.Finish:
		return "", nil
	case gemini.StreamError:
		return "", e.Err

	// openai
	case openai.Delta:
		return e.Content, nil
	case openai.Finish:
		return "", nil
	case openai.StreamError:
		return "", e.Err

	// anthropic
	case anthropic.ContentBlockDelta:
		if e.DeltaType == TextDeltaType {
			return e.Text, nil
		}
		return "", nil
	case anthropic.MessageStart, anthropic.ContentBlockStart, anthropic.ContentBlockStop,
		anthropic.MessageDelta, anthropic.MessageStop, anthropic.Ping:
		return "", nil
	case anthropic.StreamError:
		return "", e.Err
	}

	if ev == nil {
		return "", fmt.Errorf("nil stream event")
	}
	return "", &UnknownEventError{Event: ev}
}

// Normalize drains events and calls emit with every non-empty fragment in
// order. It returns the number of fragments emitted and stops at the first
// upstream error, emit error or context cancellation.
//
// Normalize applies no buffering and no reordering; emit is called
// synchronously, so a slow consumer applies backpressure to the provider.
func Normalize(ctx context.Context, events <-chan provider.Event, emit func(string) error) (int, error) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return n, nil
			}
			text, err := Project(ev)
			if err != nil {
				return n, err
			}
			if text == "" {
				continue
			}
			if err := emit(text); err != nil {
				return n, err
			}
			n++
		}
	}
}
