package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/provider/sse"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 8192

// wireState records what the transport observed for one Stream call.
// The SDK reports upstream failures as generic errors; the recorded
// response keeps the Gemini status and message for classification.
type wireState struct {
	mu        sync.Mutex
	upstream  *api.APIError
	transport error
}

type wireStateKey struct{}

func withWireState(ctx context.Context, s *wireState) context.Context {
	return context.WithValue(ctx, wireStateKey{}, s)
}

func wireStateFrom(ctx context.Context) *wireState {
	s, _ := ctx.Value(wireStateKey{}).(*wireState)
	return s
}

func (s *wireState) setUpstream(e *api.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upstream == nil {
		s.upstream = e
	}
}

func (s *wireState) setTransport(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport == nil {
		s.transport = err
	}
}

func (s *wireState) upstreamError() *api.APIError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstream
}

// mapError classifies an error returned by the SDK, preferring what the
// transport saw on the wire.
func (s *wireState) mapError(err error) *api.APIError {
	s.mu.Lock()
	upstream, transportErr := s.upstream, s.transport
	s.mu.Unlock()

	if upstream != nil {
		return upstream
	}
	if transportErr != nil {
		err = transportErr
	}
	return api.ClassifyTransportError(kind.String(), kind.DisplayName(), err)
}

// streamTransport sits between the SDK and the network. For requests that
// carry a wireState it records error responses and transport failures,
// and it filters streamed bodies: malformed chunks are dropped instead of
// ending the SDK's iteration, and an error object ends the body.
type streamTransport struct {
	base http.RoundTripper
}

func (t *streamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	state := wireStateFrom(req.Context())
	resp, err := t.base.RoundTrip(req)
	if state == nil {
		return resp, err
	}
	if err != nil {
		state.setTransport(err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		state.setUpstream(mapHTTPError(resp.StatusCode, data))
		resp.Body = io.NopCloser(bytes.NewReader(data))
		return resp, nil
	}

	resp.Body = &chunkFilter{
		body:   resp.Body,
		events: sse.NewReader(resp.Body),
		state:  state,
	}
	return resp, nil
}

// CloseIdleConnections forwards to the wrapped transport.
func (t *streamTransport) CloseIdleConnections() {
	if c, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

// chunkFilter re-encodes the valid chunks of an SSE body, one compact
// JSON object per data line.
type chunkFilter struct {
	body   io.ReadCloser
	events *sse.Reader
	state  *wireState
	buf    bytes.Buffer
	done   bool
}

func (f *chunkFilter) Read(p []byte) (int, error) {
	for f.buf.Len() == 0 {
		if f.done {
			return 0, io.EOF
		}
		ev, err := f.events.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.state.setTransport(err)
			}
			return 0, err
		}
		f.next(ev)
	}
	return f.buf.Read(p)
}

func (f *chunkFilter) next(ev sse.Event) {
	if ev.Data == "" {
		return
	}

	var env chunkEnvelope
	if err := json.Unmarshal([]byte(ev.Data), &env); err != nil {
		slog.Warn("skipping malformed stream chunk",
			"provider", kind.String(),
			"error", err.Error(),
			"data", debug.Truncate(ev.Data, 200),
		)
		return
	}
	if env.Error != nil {
		f.state.setUpstream(mapStreamError(env.Error))
		f.done = true
		return
	}

	f.buf.WriteString("data: ")
	_ = json.Compact(&f.buf, []byte(ev.Data))
	f.buf.WriteString("\n\n")
}

func (f *chunkFilter) Close() error {
	return f.body.Close()
}
