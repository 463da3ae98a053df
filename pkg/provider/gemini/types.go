package gemini

// Wire types the adapter inspects before the SDK decodes a response.

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// chunkEnvelope detects an error object delivered in place of a chunk.
type chunkEnvelope struct {
	Error *errorBody `json:"error,omitempty"`
}
