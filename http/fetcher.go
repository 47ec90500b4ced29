// Package http provides the HTTP fetcher, the external conversion client,
// and the JSON API server.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pagemark/pagemark"
	"golang.org/x/net/html/charset"
)

// Defaults for the fetcher. Pages larger than DefaultMaxBytes are refused
// before they reach the normalizer, which imposes no size limit itself.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxBytes     = 5 << 20 // 5 MiB
	defaultUserAgent    = "pagemark/1.0 (+https://github.com/pagemark/pagemark)"
)

// Ensure Fetcher implements pagemark.Fetcher at compile time.
var _ pagemark.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML from URLs with a single unconditional GET. It does
// not execute JavaScript; pages are taken as served.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBytes bounds the size of a fetched response body.
// Defaults to DefaultMaxBytes if not specified.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		maxBytes:  DefaultMaxBytes,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and returns its body decoded to UTF-8.
// Responses larger than the configured byte limit return ETOOLARGE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	// Read one byte past the limit to distinguish "exactly at the limit"
	// from "over it".
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > f.maxBytes {
		return "", pagemark.Errorf(pagemark.ETOOLARGE, "response for %s exceeds %d bytes", url, f.maxBytes)
	}

	return decodeToUTF8(raw, resp.Header.Get("Content-Type")), nil
}

// Close releases resources. A no-op for the HTTP fetcher since http.Client
// requires no explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// decodeToUTF8 converts a response body to UTF-8 using the charset declared
// in the Content-Type header or sniffed from the content. Undecodable input
// degrades to the raw bytes.
func decodeToUTF8(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
