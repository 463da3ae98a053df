package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/rhuss/gencode/pkg/api"
)

// RequestID returns middleware that makes sure every request carries an
// ID. An ID already in the context (set by the HTTP adapter from
// X-Request-ID) is kept.
func RequestID() Middleware {
	return func(next CodeGenerator) CodeGenerator {
		return CodeGeneratorFunc(func(ctx context.Context, req *api.GenerationRequest, w FragmentWriter) error {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, NewRequestID())
			}
			return next.GenerateCode(ctx, req, w)
		})
	}
}

// NewRequestID returns a fresh random request ID.
func NewRequestID() string {
	return uuid.NewString()
}
