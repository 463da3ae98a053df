package transport

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/rhuss/gencode/pkg/api"
)

// Recovery returns middleware that converts a panic in the generator into
// an internal_error. The server keeps accepting requests afterwards.
func Recovery() Middleware {
	return func(next CodeGenerator) CodeGenerator {
		return CodeGeneratorFunc(func(ctx context.Context, req *api.GenerationRequest, w FragmentWriter) (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic in code generator",
						"request_id", RequestIDFromContext(ctx),
						"panic", fmt.Sprint(r),
						"stack", string(debug.Stack()),
					)
					retErr = api.NewInternalError("internal server error")
				}
			}()
			return next.GenerateCode(ctx, req, w)
		})
	}
}
