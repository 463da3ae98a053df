// Package client is a Go client for the gencode HTTP API. It streams a
// generation to an io.Writer as the fragments arrive and offers the
// post-processing the browser UI applies to generated code.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/router"
	"github.com/rhuss/gencode/pkg/transport"
	transporthttp "github.com/rhuss/gencode/pkg/transport/http"
)

// ErrTruncated reports that the server cut the stream short after the
// response status was sent. It is only detectable when the server has the
// error trailer enabled.
var ErrTruncated = errors.New("generation truncated")

// Client performs requests against a gencode server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the server at baseURL.
//
// The default HTTP client has no overall timeout because a generation can
// stream for minutes; lifecycle control relies on context cancellation.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: http.DefaultTransport},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes a finished generation.
type Result struct {
	// RequestID is the X-Request-ID the server assigned or echoed.
	RequestID string

	// Code is the full streamed body.
	Code string

	// Elapsed is the wall time from request to end of stream.
	Elapsed time.Duration
}

// Generate posts req and copies the streamed body to w as it arrives. w may
// be nil. A request ID stored with transport.ContextWithRequestID is sent
// as X-Request-ID, which makes the generation cancellable with Cancel. A non-200 response is returned as *api.APIError. When the stream
// is cut short the partial result is returned together with the error.
func (c *Client) Generate(ctx context.Context, req *api.GenerationRequest, w io.Writer) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generateCode", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if id := transport.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gencode server connection error: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, decodeError(httpResp)
	}

	var buf strings.Builder
	dst := io.Writer(&buf)
	if w != nil {
		dst = io.MultiWriter(&buf, w)
	}
	_, copyErr := io.Copy(dst, httpResp.Body)

	res := &Result{
		RequestID: httpResp.Header.Get("X-Request-ID"),
		Code:      buf.String(),
		Elapsed:   time.Since(start),
	}
	if copyErr != nil {
		return res, fmt.Errorf("reading stream: %w", copyErr)
	}
	// Trailers are populated once the body has been read to EOF.
	if msg := httpResp.Trailer.Get(transporthttp.ErrorTrailer); msg != "" {
		return res, fmt.Errorf("%w: %s", ErrTruncated, msg)
	}
	return res, nil
}

// Cancel aborts the in-flight generation with the given request ID.
func (c *Client) Cancel(ctx context.Context, requestID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/generateCode/"+requestID, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gencode server connection error: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusNoContent {
		return decodeError(httpResp)
	}
	return nil
}

// ModelList is the model catalogue served by GET /api/models.
type ModelList struct {
	Default string         `json:"default"`
	Data    []router.Model `json:"data"`
}

// Models fetches the model catalogue.
func (c *Client) Models(ctx context.Context) (*ModelList, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gencode server connection error: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, decodeError(httpResp)
	}

	var list ModelList
	if err := json.NewDecoder(httpResp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}
	return &list, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// decodeError turns a non-success response into an *api.APIError. JSON
// bodies carry the full error; the malformed-input response is plain text.
func decodeError(resp *http.Response) *api.APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr api.APIError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Type != "" {
		return &apiErr
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusBadRequest {
		return api.NewMalformedInputError(msg)
	}
	return &api.APIError{
		Type:       api.ErrorTypeInternal,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}
