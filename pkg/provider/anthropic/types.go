package anthropic

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Type  string    `json:"type"`
	Error errorBody `json:"error"`
}
