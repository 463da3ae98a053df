// Package transport defines the handler interfaces and middleware chain for
// the gencode HTTP transport layer.
//
// The transport layer bridges clients and the generation gateway. The HTTP
// adapter (package transport/http) validates incoming requests into
// api.GenerationRequest values, dispatches them to a CodeGenerator, and
// streams the generated text back as a plain-text body.
//
// # Handler Interfaces
//
// CodeGenerator is the contract between the transport and the gateway. It
// writes text fragments to a FragmentWriter, which hides how fragments
// reach the client. A FragmentWriter is idle until its first fragment and
// streaming afterwards; the adapter uses that state to decide whether a
// failure can still become an HTTP error status.
//
// # Middleware
//
// The middleware chain wraps CodeGenerator with cross-cutting concerns:
// panic recovery, request ID assignment (X-Request-ID) and one structured
// log line per request via log/slog.
package transport
