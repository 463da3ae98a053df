package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// InvalidJSONMessage is the message returned for bodies that are not JSON.
const InvalidJSONMessage = "Invalid JSON input"

// rawRequest mirrors GenerationRequest with pointer fields so that missing
// and null members can be told apart from empty strings.
type rawRequest struct {
	ModelID  presentString `json:"modelId"`
	Model    *string       `json:"model"`
	Messages *[]rawMessage `json:"messages"`
}

// presentString decodes a string member and records whether the key was
// present at all, so an explicit null differs from a missing key.
type presentString struct {
	set   bool
	value *string
}

func (p *presentString) UnmarshalJSON(data []byte) error {
	p.set = true
	if err := json.Unmarshal(data, &p.value); err != nil {
		return NewSchemaViolationError("modelId", fmt.Sprintf("expected string, got %s", bytes.TrimSpace(data)))
	}
	return nil
}

type rawMessage struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

// DecodeGenerationRequest parses a raw request body and checks it against
// the GenerationRequest shape. It returns a malformed_input error when data
// is not JSON and a schema_violation error describing the first offending
// field otherwise.
//
// The model identifier is read from "modelId"; "model" is accepted as an
// alias when "modelId" is absent. An explicit null "modelId" is rejected
// rather than falling back to the alias. Unknown fields are ignored.
func DecodeGenerationRequest(data []byte) (*GenerationRequest, *APIError) {
	if !json.Valid(data) {
		return nil, NewMalformedInputError(InvalidJSONMessage)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewSchemaViolationError("", "request body must be a JSON object")
	}

	var raw rawRequest
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, schemaErrorFromUnmarshal(err)
	}

	return validateRaw(&raw)
}

func validateRaw(raw *rawRequest) (*GenerationRequest, *APIError) {
	modelID := raw.ModelID.value
	param := "modelId"
	switch {
	case raw.ModelID.set && modelID == nil:
		return nil, NewSchemaViolationError(param, "modelId must not be null")
	case !raw.ModelID.set:
		modelID = raw.Model
	}
	if modelID == nil {
		return nil, NewSchemaViolationError(param, "modelId is required")
	}
	if *modelID == "" {
		return nil, NewSchemaViolationError(param, "modelId must not be empty")
	}

	if raw.Messages == nil {
		return nil, NewSchemaViolationError("messages", "messages is required")
	}
	if len(*raw.Messages) == 0 {
		return nil, NewSchemaViolationError("messages", "messages must contain at least one message")
	}

	req := &GenerationRequest{
		ModelID:  *modelID,
		Messages: make([]Message, 0, len(*raw.Messages)),
	}
	for i, m := range *raw.Messages {
		if m.Role == nil {
			return nil, NewSchemaViolationError(fmt.Sprintf("messages[%d].role", i), "role is required")
		}
		role := Role(*m.Role)
		if !role.Valid() {
			return nil, NewSchemaViolationError(fmt.Sprintf("messages[%d].role", i),
				fmt.Sprintf("invalid role %q: expected \"user\" or \"assistant\"", *m.Role))
		}
		if m.Content == nil {
			return nil, NewSchemaViolationError(fmt.Sprintf("messages[%d].content", i), "content is required")
		}
		req.Messages = append(req.Messages, Message{Role: role, Content: *m.Content})
	}

	return req, nil
}

// schemaErrorFromUnmarshal converts a decoding error on syntactically valid
// JSON into a schema violation naming the offending field.
func schemaErrorFromUnmarshal(err error) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return NewSchemaViolationError(field,
			fmt.Sprintf("expected %s, got %s", typeErr.Type.String(), typeErr.Value))
	}
	return NewSchemaViolationError("", err.Error())
}
