// Package api defines the request types and the error taxonomy of the
// gencode gateway.
//
// The package performs no I/O. It provides:
//   - [GenerationRequest] and [Message]: the validated inbound request
//   - [DecodeGenerationRequest]: parsing and schema validation of raw bodies
//   - [APIError]: the classified failure carried through every stage, with
//     an [ErrorType] drawn from a small fixed taxonomy
//
// Error types fall into three groups that match the phases of a request:
// pre-dispatch (malformed_input, schema_violation), dispatch
// (provider_auth_error, provider_rate_limited, provider_unavailable,
// unknown_provider_error) and mid-stream (mid_stream_truncation), which is
// never sent to the caller.
package api
