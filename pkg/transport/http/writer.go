package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/rhuss/gencode/pkg/transport"
)

// ErrorTrailer names the optional HTTP trailer that reports a failure
// after streaming started.
const ErrorTrailer = "X-Generation-Error"

// writerState tracks the state of a textResponseWriter.
type writerState int

const (
	writerIdle      writerState = iota // no fragment written, status not sent
	writerStreaming                    // 200 sent, at least one fragment written
	writerCompleted                    // generator returned
)

// textResponseWriter implements transport.FragmentWriter over a streamed
// text/plain body. The 200 status is committed with the first fragment;
// until then a failure can still become an HTTP error status.
type textResponseWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu          sync.Mutex
	state       writerState
	trailer     bool
	writeFailed bool
}

var _ transport.FragmentWriter = (*textResponseWriter)(nil)

func newTextResponseWriter(w http.ResponseWriter, trailer bool) *textResponseWriter {
	return &textResponseWriter{
		w:       w,
		rc:      http.NewResponseController(w),
		trailer: trailer,
	}
}

// WriteFragment writes text to the body and flushes it immediately.
func (t *textResponseWriter) WriteFragment(ctx context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == writerCompleted {
		return errors.New("cannot write fragment: writer is completed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	t.commit()

	if _, err := io.WriteString(t.w, text); err != nil {
		t.writeFailed = true
		return fmt.Errorf("failed to write fragment: %w", err)
	}
	return t.flush()
}

// start commits the success headers if no fragment did so, e.g. for a
// stream that produced no text.
func (t *textResponseWriter) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != writerCompleted {
		t.commit()
	}
}

func (t *textResponseWriter) commit() {
	if t.state != writerIdle {
		return
	}
	h := t.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	if t.trailer {
		h.Set("Trailer", ErrorTrailer)
	}
	t.w.WriteHeader(http.StatusOK)
	t.state = writerStreaming
}

// Flush ensures buffered data is sent to the client.
func (t *textResponseWriter) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush()
}

func (t *textResponseWriter) flush() error {
	if err := t.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		t.writeFailed = true
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// complete marks the writer as finished. It reports whether streaming had
// started.
func (t *textResponseWriter) complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	started := t.state == writerStreaming
	t.state = writerCompleted
	return started
}

// clientFailed reports whether writing to the client failed, e.g. because
// the connection was closed.
func (t *textResponseWriter) clientFailed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeFailed
}

// setTrailerError reports a post-status failure in the error trailer. It
// is a no-op unless the trailer was announced.
func (t *textResponseWriter) setTrailerError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.trailer {
		t.w.Header().Set(ErrorTrailer, msg)
	}
}
