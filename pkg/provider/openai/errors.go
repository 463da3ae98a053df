package openai

import (
	"errors"

	oai "github.com/openai/openai-go"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/provider"
)

var kind = provider.KindOpenAI

// mapError classifies an error returned by the SDK. Upstream HTTP errors
// arrive as *oai.Error carrying the status code; anything else is a
// transport failure.
func mapError(err error) *api.APIError {
	var sdkErr *oai.Error
	if errors.As(err, &sdkErr) {
		msg := sdkErr.Message
		if msg == "" {
			msg = sdkErr.Error()
		}
		typ := api.ErrorTypeForStatus(sdkErr.StatusCode)
		if sdkErr.Code == "insufficient_quota" || sdkErr.Code == "rate_limit_exceeded" {
			typ = api.ErrorTypeProviderRateLimited
		}
		e := api.NewProviderError(typ, kind.String(), kind.DisplayName(), sdkErr.StatusCode, msg)
		e.Cause = err
		return e
	}
	return api.ClassifyTransportError(kind.String(), kind.DisplayName(), err)
}

func missingKeyError() *api.APIError {
	return api.NewProviderError(api.ErrorTypeProviderAuth, kind.String(), kind.DisplayName(), 0,
		"API key not configured (set OPENAI_API_KEY)")
}
