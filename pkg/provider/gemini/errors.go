package gemini

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/provider"
)

var kind = provider.KindGemini

// classify maps a Gemini error status and message to an error type.
// Gemini reports an invalid key as 400 INVALID_ARGUMENT, so the message is
// checked as well as the status.
func classify(httpStatus int, body errorBody) api.ErrorType {
	switch {
	case body.Status == "UNAUTHENTICATED" || body.Status == "PERMISSION_DENIED":
		return api.ErrorTypeProviderAuth
	case strings.Contains(body.Message, "API key not valid"):
		return api.ErrorTypeProviderAuth
	case body.Status == "RESOURCE_EXHAUSTED":
		return api.ErrorTypeProviderRateLimited
	case body.Status == "UNAVAILABLE" || body.Status == "INTERNAL" || body.Status == "DEADLINE_EXCEEDED":
		return api.ErrorTypeProviderUnavailable
	}
	return api.ErrorTypeForStatus(httpStatus)
}

func newError(status int, body errorBody) *api.APIError {
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return api.NewProviderError(classify(status, body), kind.String(), kind.DisplayName(), status, msg)
}

// mapHTTPError converts a non-2xx upstream response body into an APIError.
func mapHTTPError(status int, data []byte) *api.APIError {
	var body errorBody
	var er errorResponse
	if json.Unmarshal(data, &er) == nil {
		body = er.Error
	}
	if body.Message == "" {
		body.Message = strings.TrimSpace(string(data))
	}
	return newError(status, body)
}

// mapStreamError converts an error object delivered inside the stream.
func mapStreamError(body *errorBody) *api.APIError {
	return newError(body.Code, *body)
}

func missingKeyError() *api.APIError {
	return api.NewProviderError(api.ErrorTypeProviderAuth, kind.String(), kind.DisplayName(), 0,
		"API key not configured (set GOOGLE_AI_API_KEY)")
}
