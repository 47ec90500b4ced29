package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pagemark/pagemark"
)

// DefaultExternalTimeout allows for the remote endpoint performing its own
// fetch and model call.
const DefaultExternalTimeout = 60 * time.Second

// Ensure ExternalClient implements pagemark.ExternalConverter at compile time.
var _ pagemark.ExternalConverter = (*ExternalClient)(nil)

// ExternalClient forwards conversion requests to a remote endpoint that
// fetches and formats the page itself. Used for the external_api processing
// mode, which bypasses the local pipeline entirely.
type ExternalClient struct {
	endpoint string
	client   *http.Client
}

// ExternalOption configures an ExternalClient.
type ExternalOption func(*ExternalClient)

// WithExternalTimeout sets the timeout for external conversion requests.
func WithExternalTimeout(d time.Duration) ExternalOption {
	return func(c *ExternalClient) {
		c.client.Timeout = d
	}
}

// NewExternalClient creates a client for the conversion endpoint.
func NewExternalClient(endpoint string, opts ...ExternalOption) *ExternalClient {
	c := &ExternalClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultExternalTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type externalRequest struct {
	URL string `json:"url"`
}

type externalResponse struct {
	Markdown string `json:"markdown"`
}

// Convert posts the raw URL to the external endpoint and returns the
// Markdown it produced.
func (c *ExternalClient) Convert(ctx context.Context, rawURL string) (string, error) {
	if c.endpoint == "" {
		return "", pagemark.Errorf(pagemark.EUNAVAILABLE, "external conversion endpoint not configured")
	}

	payload, err := json.Marshal(externalRequest{URL: rawURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("external API HTTP %d for %s", resp.StatusCode, rawURL)
	}

	var body externalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding external API response: %w", err)
	}

	return body.Markdown, nil
}
