package anthropic

import (
	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/rhuss/gencode/pkg/debug"
)

// translate converts one SDK stream event to its adapter event. Unknown
// event types are ignored so that new upstream events do not break the
// stream.
func translate(ev sdk.MessageStreamEventUnion) (Event, bool) {
	switch ev.Type {
	case "message_start":
		return MessageStart{ID: ev.Message.ID, Model: string(ev.Message.Model)}, true
	case "content_block_start":
		return ContentBlockStart{Index: int(ev.Index), BlockType: ev.ContentBlock.Type}, true
	case "content_block_delta":
		return ContentBlockDelta{Index: int(ev.Index), DeltaType: ev.Delta.Type, Text: ev.Delta.Text}, true
	case "content_block_stop":
		return ContentBlockStop{Index: int(ev.Index)}, true
	case "message_delta":
		return MessageDelta{StopReason: string(ev.Delta.StopReason)}, true
	case "message_stop":
		return MessageStop{}, true
	case "ping":
		return Ping{}, true
	}
	debug.Log("streaming", "ignoring stream event", "provider", kind.String(), "type", ev.Type)
	return nil, false
}
