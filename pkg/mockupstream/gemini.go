package mockupstream

import (
	"net/http"
	"strings"
)

func (s *Server) handleGemini(w http.ResponseWriter, r *http.Request) {
	model, ok := strings.CutSuffix(r.PathValue("action"), ":streamGenerateContent")
	if !ok {
		http.NotFound(w, r)
		return
	}
	key := r.Header.Get("x-goog-api-key")
	s.record(ProtocolGemini, model, key, readBody(r))

	switch s.scenarioFor(model, key) {
	case scenarioAuth:
		writeJSON(w, http.StatusBadRequest, geminiError(400, "API key not valid. Please pass a valid API key.", "INVALID_ARGUMENT"))
		return
	case scenarioRate:
		writeJSON(w, http.StatusTooManyRequests, geminiError(429, "Resource has been exhausted (e.g. check quota).", "RESOURCE_EXHAUSTED"))
		return
	case scenarioMidStream:
		sw := newSSEWriter(w, s.opts.Delay)
		sw.event("", geminiChunk(s.opts.Fragments[0], ""))
		sw.event("", geminiError(503, "The model is overloaded. Please try again later.", "UNAVAILABLE"))
		return
	}

	sw := newSSEWriter(w, s.opts.Delay)
	last := len(s.opts.Fragments) - 1
	for i, f := range s.opts.Fragments {
		sw.pause()
		finish := ""
		if i == last {
			finish = "STOP"
		}
		sw.event("", geminiChunk(f, finish))
	}
}

func geminiChunk(text, finish string) map[string]any {
	cand := map[string]any{
		"content": map[string]any{
			"role":  "model",
			"parts": []any{map[string]any{"text": text}},
		},
		"index": 0,
	}
	if finish != "" {
		cand["finishReason"] = finish
	}
	return map[string]any{"candidates": []any{cand}}
}

func geminiError(code int, msg, status string) map[string]any {
	return map[string]any{"error": map[string]any{"code": code, "message": msg, "status": status}}
}
