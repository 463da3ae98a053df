package anthropic

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/provider"
)

var kind = provider.KindAnthropic

// classify maps an Anthropic error type to a gateway error type, falling
// back to the HTTP status.
func classify(status int, body errorBody) api.ErrorType {
	switch body.Type {
	case "authentication_error", "permission_error":
		return api.ErrorTypeProviderAuth
	case "rate_limit_error":
		return api.ErrorTypeProviderRateLimited
	case "overloaded_error", "api_error":
		return api.ErrorTypeProviderUnavailable
	}
	return api.ErrorTypeForStatus(status)
}

func newError(status int, body errorBody) *api.APIError {
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return api.NewProviderError(classify(status, body), kind.String(), kind.DisplayName(), status, msg)
}

// mapError classifies an error returned by the SDK. Upstream HTTP errors
// arrive as *sdk.Error carrying the status and the raw error body. An
// error event inside the stream arrives as a plain error quoting the
// event payload. Anything else is a transport failure.
func mapError(err error) *api.APIError {
	var sdkErr *sdk.Error
	if errors.As(err, &sdkErr) {
		raw := sdkErr.RawJSON()
		body, ok := parseErrorBody(raw)
		if !ok {
			body.Message = strings.TrimSpace(raw)
		}
		e := newError(sdkErr.StatusCode, body)
		e.Cause = err
		return e
	}

	if body, ok := streamErrorBody(err); ok {
		e := newError(0, body)
		e.Cause = err
		return e
	}
	return api.ClassifyTransportError(kind.String(), kind.DisplayName(), err)
}

// streamErrorBody extracts the error payload the SDK quotes when the
// stream carries an error event.
func streamErrorBody(err error) (errorBody, bool) {
	msg := err.Error()
	i := strings.IndexByte(msg, '{')
	if i < 0 {
		return errorBody{}, false
	}
	return parseErrorBody(msg[i:])
}

func parseErrorBody(data string) (errorBody, bool) {
	var er errorResponse
	if err := json.Unmarshal([]byte(data), &er); err != nil || er.Error.Type == "" {
		return errorBody{}, false
	}
	return er.Error, true
}

func missingKeyError() *api.APIError {
	return api.NewProviderError(api.ErrorTypeProviderAuth, kind.String(), kind.DisplayName(), 0,
		"API key not configured (set ANTHROPIC_API_KEY)")
}
