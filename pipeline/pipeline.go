// Package pipeline orchestrates the fetch, normalize, and format steps that
// turn a URL into Markdown, and prepares context documents for the chat
// agent.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/bloom"
	"golang.org/x/sync/singleflight"
)

// Pipeline coordinates one-shot URL conversions. Each conversion is
// stateless and independent; concurrent conversions of the same URL share a
// single fetch through the singleflight group.
type Pipeline struct {
	Fetcher     pagemark.Fetcher
	RateLimiter pagemark.DomainLimiter
	Normalizer  pagemark.Normalizer
	Formatter   pagemark.Formatter
	External    pagemark.ExternalConverter
	Meta        pagemark.MetaExtractor
	Extractor   pagemark.Extractor
	Converter   pagemark.Converter
	Seen        *bloom.Filter
	Logger      *slog.Logger

	group singleflight.Group
	now   func() time.Time
}

// Convert fetches the page at rawURL, normalizes it according to mode, and
// formats the result as Markdown. ModeExternalAPI skips the local fetch and
// normalization and forwards the raw URL to the external endpoint.
func (p *Pipeline) Convert(ctx context.Context, rawURL string, mode pagemark.ProcessingMode) (*pagemark.Result, error) {
	if !mode.Valid() {
		return nil, pagemark.Errorf(pagemark.EINVALID, "invalid processing mode %q", mode)
	}
	host, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if mode == pagemark.ModeExternalAPI {
		return p.convertExternal(ctx, rawURL)
	}

	if p.Formatter == nil {
		return nil, pagemark.Errorf(pagemark.EUNAVAILABLE, "no content formatter configured")
	}

	if p.RateLimiter != nil {
		if err := p.RateLimiter.Wait(ctx, host); err != nil {
			return nil, err
		}
	}

	html, err := p.fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}

	result := &pagemark.Result{
		SourceURL:   rawURL,
		Mode:        mode,
		ContentHash: hashContent(html),
		Bytes:       len(html),
		FetchedAt:   p.timeNow(),
	}

	if p.Seen != nil {
		result.Revisit = p.Seen.Seen(rawURL)
		p.Seen.Add(rawURL)
	}

	if p.Meta != nil {
		if meta, merr := p.Meta.ExtractMeta(html); merr == nil {
			result.Title = meta.Title
			result.Description = meta.Description
		}
	}

	content, err := p.Normalizer.Normalize(html, mode)
	if err != nil {
		return nil, err
	}
	if content == "" && mode.UsesNormalizer() {
		// Degraded output, not a failure: the empty payload is still
		// forwarded to the formatter.
		p.logger().Warn("normalization produced empty content",
			"url", rawURL,
			"mode", mode,
			"input_bytes", len(html),
		)
		result.EmptyNormalization = true
	}

	markdown, err := p.Formatter.Format(ctx, pagemark.FormatRequest{
		SourceURL: rawURL,
		Mode:      mode,
		Content:   content,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", rawURL, err)
	}

	result.Markdown = markdown
	return result, nil
}

// ChatContext fetches rawURL and builds the context document handed to the
// chat agent: the page's main content extracted and converted to Markdown.
// When extraction cannot find content, the stripped full page is used
// instead, so the chat agent always receives whatever text the page had.
func (p *Pipeline) ChatContext(ctx context.Context, rawURL string) (title, doc string, err error) {
	host, err := validateURL(rawURL)
	if err != nil {
		return "", "", err
	}

	if p.RateLimiter != nil {
		if err := p.RateLimiter.Wait(ctx, host); err != nil {
			return "", "", err
		}
	}

	html, err := p.fetch(ctx, rawURL)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}

	if p.Extractor != nil && p.Converter != nil {
		if res, xerr := p.Extractor.Extract(html); xerr == nil && res.ContentHTML != "" {
			if md, cerr := p.Converter.Convert(res.ContentHTML); cerr == nil {
				return res.Title, md, nil
			}
		}
	}

	text, err := p.Normalizer.Normalize(html, pagemark.ModeFullPage)
	if err != nil {
		return "", "", err
	}
	return "", text, nil
}

func (p *Pipeline) convertExternal(ctx context.Context, rawURL string) (*pagemark.Result, error) {
	if p.External == nil {
		return nil, pagemark.Errorf(pagemark.EUNAVAILABLE, "no external conversion endpoint configured")
	}
	markdown, err := p.External.Convert(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("external conversion of %s: %w", rawURL, err)
	}
	return &pagemark.Result{
		SourceURL: rawURL,
		Mode:      pagemark.ModeExternalAPI,
		Markdown:  markdown,
		FetchedAt: p.timeNow(),
	}, nil
}

// fetch deduplicates concurrent fetches of the same URL.
func (p *Pipeline) fetch(ctx context.Context, rawURL string) (string, error) {
	v, err, _ := p.group.Do(rawURL, func() (any, error) {
		return p.Fetcher.Fetch(ctx, rawURL)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) timeNow() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now().UTC()
}

// validateURL checks that rawURL is an absolute http(s) URL and returns its
// host for rate limiting.
func validateURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagemark.Errorf(pagemark.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", pagemark.Errorf(pagemark.EINVALID, "URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", pagemark.Errorf(pagemark.EINVALID, "URL host required")
	}
	return u.Host, nil
}

// hashContent computes a hash of the fetched content using xxhash. The hash
// labels results for audit; it is not a security primitive.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
