package mockupstream

import (
	"encoding/json"
	"net/http"
)

type messagesRequest struct {
	Model string `json:"model"`
}

func (s *Server) handleAnthropic(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	var req messagesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, anthropicError("invalid_request_error", "invalid request body"))
		return
	}
	key := r.Header.Get("x-api-key")
	s.record(ProtocolAnthropic, req.Model, key, body)

	sc := s.scenarioFor(req.Model, key)
	switch sc {
	case scenarioAuth:
		writeJSON(w, http.StatusUnauthorized, anthropicError("authentication_error", "invalid x-api-key"))
		return
	case scenarioRate:
		writeJSON(w, http.StatusTooManyRequests, anthropicError("rate_limit_error", "Number of requests has exceeded your rate limit"))
		return
	}

	sw := newSSEWriter(w, s.opts.Delay)
	sw.event("message_start", map[string]any{
		"type":    "message_start",
		"message": map[string]any{"id": "msg_mock", "type": "message", "role": "assistant", "model": req.Model},
	})
	sw.event("content_block_start", map[string]any{
		"type": "content_block_start", "index": 0,
		"content_block": map[string]any{"type": "text", "text": ""},
	})
	sw.event("ping", map[string]any{"type": "ping"})

	if sc == scenarioMidStream {
		sw.event("content_block_delta", textDelta(s.opts.Fragments[0]))
		sw.event("error", anthropicError("overloaded_error", "Overloaded"))
		return
	}

	for _, f := range s.opts.Fragments {
		sw.pause()
		sw.event("content_block_delta", textDelta(f))
	}
	sw.event("content_block_stop", map[string]any{"type": "content_block_stop", "index": 0})
	sw.event("message_delta", map[string]any{
		"type":  "message_delta",
		"delta": map[string]any{"stop_reason": "end_turn"},
	})
	sw.event("message_stop", map[string]any{"type": "message_stop"})
}

func textDelta(text string) map[string]any {
	return map[string]any{
		"type": "content_block_delta", "index": 0,
		"delta": map[string]any{"type": "text_delta", "text": text},
	}
}

func anthropicError(typ, msg string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": typ, "message": msg}}
}
