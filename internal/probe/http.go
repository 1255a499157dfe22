package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with a timeout and request id tagging.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// response is a decoded-on-demand HTTP reply.
type response struct {
	status    int
	requestID string
	echoedID  string
	body      []byte
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET with a fresh request id and reads the whole body.
func (c *HTTPClient) get(ctx context.Context, path string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &response{
		status:    resp.StatusCode,
		requestID: id,
		echoedID:  resp.Header.Get(requestIDHeader),
		body:      body,
	}, nil
}

// getJSON performs a GET, requires a 200 and decodes the body into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) (*response, error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.status != StatusOK {
		return resp, fmt.Errorf("GET %s: status %d: %s", path, resp.status, resp.body)
	}
	if err := json.Unmarshal(resp.body, v); err != nil {
		return resp, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp, nil
}
