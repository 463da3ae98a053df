package gemini

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/rhuss/gencode/pkg/provider"
)

// sendResponse translates one streamed response into events on ch. It
// reports false once the consumer has gone away.
//
// Responses without candidates (e.g. a blocked prompt) and candidates
// without text are logged and skipped.
func sendResponse(ctx context.Context, ch chan<- provider.Event, resp *genai.GenerateContentResponse) bool {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		reason := ""
		if resp != nil && resp.PromptFeedback != nil {
			reason = string(resp.PromptFeedback.BlockReason)
		}
		slog.Warn("skipping stream chunk without candidates",
			"provider", kind.String(),
			"block_reason", reason,
		)
		return true
	}

	cand := resp.Candidates[0]
	if text := candidateText(cand); text != "" {
		if !provider.Send(ctx, ch, Chunk{Text: text}) {
			return false
		}
	} else if cand.FinishReason == "" {
		slog.Warn("skipping stream chunk without text", "provider", kind.String())
	}

	if cand.FinishReason != "" {
		return provider.Send(ctx, ch, Finish{Reason: string(cand.FinishReason)})
	}
	return true
}

// candidateText joins the text parts of c. Thought summaries are not
// generated code and are left out.
func candidateText(c *genai.Candidate) string {
	if c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
