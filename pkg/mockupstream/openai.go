package mockupstream

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type chatRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

func (s *Server) handleOpenAI(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, openAIError("invalid request", "invalid_request_error", ""))
		return
	}
	key := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.record(ProtocolOpenAI, req.Model, key, body)

	sc := s.scenarioFor(req.Model, key)
	switch sc {
	case scenarioAuth:
		writeJSON(w, http.StatusUnauthorized, openAIError("Incorrect API key provided.", "invalid_request_error", "invalid_api_key"))
		return
	case scenarioRate:
		writeJSON(w, http.StatusTooManyRequests, openAIError("Rate limit reached.", "requests", "rate_limit_exceeded"))
		return
	}

	sw := newSSEWriter(w, s.opts.Delay)
	sw.event("", openAIChunk(req.Model, map[string]any{"role": "assistant", "content": ""}, nil))

	if sc == scenarioMidStream {
		sw.event("", openAIChunk(req.Model, map[string]any{"content": s.opts.Fragments[0]}, nil))
		sw.event("", openAIError("The server had an error while processing your request.", "server_error", ""))
		return
	}

	for _, f := range s.opts.Fragments {
		sw.pause()
		sw.event("", openAIChunk(req.Model, map[string]any{"content": f}, nil))
	}
	sw.event("", openAIChunk(req.Model, map[string]any{}, "stop"))
	sw.raw("data: [DONE]\n\n")
}

func openAIChunk(model string, delta map[string]any, finish any) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []any{map[string]any{
			"index":         0,
			"delta":         delta,
			"finish_reason": finish,
		}},
	}
}

func openAIError(msg, typ, code string) map[string]any {
	e := map[string]any{"message": msg, "type": typ}
	if code != "" {
		e["code"] = code
	}
	return map[string]any{"error": e}
}
