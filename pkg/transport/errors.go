package transport

import (
	"encoding/json"
	"net/http"

	"github.com/rhuss/gencode/pkg/api"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP status
// code. Every provider failure is a 500; the payload carries the detail.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeMalformedInput:
		return http.StatusBadRequest
	case api.ErrorTypeSchemaViolation:
		return http.StatusUnprocessableEntity
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes apiErr with the given status. Malformed input
// is answered with a plain-text body, everything else with the JSON
// payload {"error", "type", "param", "provider", "status"}.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	if apiErr.Type == api.ErrorTypeMalformedInput {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(statusCode)
		w.Write([]byte(apiErr.Message))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErr)
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
