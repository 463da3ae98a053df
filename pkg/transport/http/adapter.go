package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/observability"
	"github.com/rhuss/gencode/pkg/router"
	"github.com/rhuss/gencode/pkg/transport"
)

// Adapter serves the code generation API over HTTP.
type Adapter struct {
	generator transport.CodeGenerator
	models    transport.ModelLister // nil disables GET /api/models
	inflight  *transport.InFlightRegistry
	mux       *http.ServeMux
	config    Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	// MaxBodySize bounds the request body; larger bodies get 413.
	MaxBodySize int64

	// ErrorTrailer announces the X-Generation-Error trailer on every
	// streamed response and fills it when the stream is cut short.
	ErrorTrailer bool
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates an HTTP adapter around generator. Middleware is
// applied to the generator in the given order.
func NewAdapter(generator transport.CodeGenerator, models transport.ModelLister, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		generator = transport.Chain(middlewares...)(generator)
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		generator: generator,
		models:    models,
		inflight:  transport.NewInFlightRegistry(),
		mux:       http.NewServeMux(),
		config:    cfg,
	}

	a.mux.HandleFunc("POST /api/generateCode", a.handleGenerateCode)
	a.mux.HandleFunc("DELETE /api/generateCode/{id}", a.handleCancel)
	a.mux.HandleFunc("GET /api/models", a.handleListModels)

	return a
}

// Handler returns the http.Handler for this adapter, including request ID
// propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// httpRequestIDMiddleware takes the request ID from X-Request-ID or
// generates one, stores it in the context and echoes it on the response.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = transport.NewRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleGenerateCode handles POST /api/generateCode.
func (a *Adapter) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewMalformedInputError(fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteAPIError(w, api.NewMalformedInputError(api.InvalidJSONMessage))
		return
	}

	req, apiErr := api.DecodeGenerationRequest(body)
	if apiErr != nil {
		debug.Log("transport", "request rejected", "type", apiErr.Type, "param", apiErr.Param)
		transport.WriteAPIError(w, apiErr)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	id := transport.RequestIDFromContext(ctx)
	if a.inflight.Register(id, cancel) {
		defer a.inflight.Remove(id)
	}

	rw := newTextResponseWriter(w, a.config.ErrorTrailer)
	err = a.generator.GenerateCode(ctx, req, rw)
	if err == nil {
		rw.start()
	}
	started := rw.complete()

	if err != nil {
		a.writeHandlerError(ctx, w, rw, started, req, err)
	}
}

// writeHandlerError reports a generator failure. Before the first fragment
// it becomes an HTTP error response. After that the status is already
// committed: the body simply ends, and the failure is logged, counted and
// optionally exposed in the error trailer.
func (a *Adapter) writeHandlerError(ctx context.Context, w http.ResponseWriter, rw *textResponseWriter, started bool, req *api.GenerationRequest, err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) {
			apiErr = api.NewInternalError("generation cancelled")
		} else {
			apiErr = api.NewInternalError(err.Error())
		}
	}

	if !started {
		transport.WriteAPIError(w, apiErr)
		return
	}

	providerName := router.Resolve(req.ModelID).Kind.String()
	if errors.Is(err, context.Canceled) {
		debug.Log("transport", "generation cancelled after streaming started",
			"request_id", transport.RequestIDFromContext(ctx), "provider", providerName)
		return
	}
	if rw.clientFailed() {
		debug.Log("transport", "client went away during streaming",
			"request_id", transport.RequestIDFromContext(ctx), "provider", providerName, "error", err.Error())
		return
	}

	slog.Warn("generation truncated",
		"type", api.ErrorTypeMidStreamTruncation,
		"request_id", transport.RequestIDFromContext(ctx),
		"provider", providerName,
		"error", apiErr.Message,
	)
	observability.MidStreamTruncationsTotal.WithLabelValues(providerName).Inc()
	rw.setTrailerError(apiErr.Message)
}

// handleCancel handles DELETE /api/generateCode/{id}.
func (a *Adapter) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if a.inflight.Cancel(id) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	transport.WriteAPIError(w, api.NewNotFoundError("no generation in flight with ID "+id))
}

// modelList is the GET /api/models response body.
type modelList struct {
	Object  string         `json:"object"`
	Default string         `json:"default"`
	Data    []router.Model `json:"data"`
}

// handleListModels handles GET /api/models.
func (a *Adapter) handleListModels(w http.ResponseWriter, r *http.Request) {
	if a.models == nil {
		transport.WriteAPIError(w, api.NewNotFoundError("model catalogue is not available"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(modelList{
		Object:  "list",
		Default: router.DefaultModelID,
		Data:    a.models.ListModels(r.Context()),
	})
}
