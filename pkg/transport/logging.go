package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/router"
)

// Logging returns middleware that emits one structured log entry per
// generation: request ID, model, routed provider, fragment count, bytes
// streamed and duration. Failures log at WARN with the error type.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next CodeGenerator) CodeGenerator {
		return CodeGeneratorFunc(func(ctx context.Context, req *api.GenerationRequest, w FragmentWriter) error {
			start := time.Now()
			cw := &countingWriter{FragmentWriter: w}

			err := next.GenerateCode(ctx, req, cw)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("model", req.ModelID),
				slog.String("provider", router.Resolve(req.ModelID).Kind.String()),
				slog.Int("fragments", cw.fragments),
				slog.Int("bytes", cw.bytes),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					attrs = append(attrs, slog.String("error_type", string(apiErr.Type)))
				}
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelWarn, "generation failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "generation completed", attrs...)
			}

			return err
		})
	}
}

type countingWriter struct {
	FragmentWriter
	fragments int
	bytes     int
}

func (c *countingWriter) WriteFragment(ctx context.Context, text string) error {
	if err := c.FragmentWriter.WriteFragment(ctx, text); err != nil {
		return err
	}
	c.fragments++
	c.bytes += len(text)
	return nil
}
