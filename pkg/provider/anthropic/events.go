package anthropic

import "github.com/rhuss/gencode/pkg/provider"

// Event is the closed set of events emitted by the Anthropic adapter. It
// mirrors the Messages API stream event types.
type Event interface {
	provider.Event
	anthropicEvent()
}

type (
	// MessageStart opens the message.
	MessageStart struct {
		ID    string
		Model string
	}

	// ContentBlockStart opens content block Index.
	ContentBlockStart struct {
		Index     int
		BlockType string
	}

	// ContentBlockDelta carries an incremental update to a content block.
	// Only DeltaType "text_delta" carries generated text.
	ContentBlockDelta struct {
		Index     int
		DeltaType string
		Text      string
	}

	// ContentBlockStop closes content block Index.
	ContentBlockStop struct {
		Index int
	}

	// MessageDelta carries top-level message changes such as the stop reason.
	MessageDelta struct {
		StopReason string
	}

	// MessageStop ends the message.
	MessageStop struct{}

	// Ping is a keepalive.
	Ping struct{}

	// StreamError terminates the stream abnormally. It is always the last
	// event on the channel.
	StreamError struct {
		Err error
	}
)

func (MessageStart) Source() provider.Kind      { return provider.KindAnthropic }
func (ContentBlockStart) Source() provider.Kind { return provider.KindAnthropic }
func (ContentBlockDelta) Source() provider.Kind { return provider.KindAnthropic }
func (ContentBlockStop) Source() provider.Kind  { return provider.KindAnthropic }
func (MessageDelta) Source() provider.Kind      { return provider.KindAnthropic }
func (MessageStop) Source() provider.Kind       { return provider.KindAnthropic }
func (Ping) Source() provider.Kind              { return provider.KindAnthropic }
func (StreamError) Source() provider.Kind       { return provider.KindAnthropic }

func (MessageStart) anthropicEvent()      {}
func (ContentBlockStart) anthropicEvent() {}
func (ContentBlockDelta) anthropicEvent() {}
func (ContentBlockStop) anthropicEvent()  {}
func (MessageDelta) anthropicEvent()      {}
func (MessageStop) anthropicEvent()       {}
func (Ping) anthropicEvent()              {}
func (StreamError) anthropicEvent()       {}
