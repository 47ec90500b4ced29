package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/bloom"
	"github.com/pagemark/pagemark/mock"
	"github.com/pagemark/pagemark/normalize"
	"github.com/pagemark/pagemark/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Convert(t *testing.T) {
	t.Parallel()

	t.Run("fetches, normalizes, and formats", func(t *testing.T) {
		t.Parallel()

		var fetchedURL string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetchedURL = url
				return `<html><body><p>Hello</p><p>World</p></body></html>`, nil
			},
		}
		var gotReq pagemark.FormatRequest
		formatter := &mock.Formatter{
			FormatFn: func(_ context.Context, req pagemark.FormatRequest) (string, error) {
				gotReq = req
				return "Hello\n\nWorld", nil
			},
		}

		p := &pipeline.Pipeline{
			Fetcher:    fetcher,
			Normalizer: normalize.New(),
			Formatter:  formatter,
		}

		result, err := p.Convert(context.Background(), "https://example.com/page", pagemark.ModeExtractBody)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", fetchedURL)
		assert.Equal(t, "https://example.com/page", gotReq.SourceURL)
		assert.Equal(t, pagemark.ModeExtractBody, gotReq.Mode)
		assert.Equal(t, "Hello\n\nWorld", gotReq.Content)
		assert.Equal(t, "Hello\n\nWorld", result.Markdown)
		assert.NotEmpty(t, result.ContentHash)
		assert.False(t, result.FetchedAt.IsZero())
		assert.False(t, result.EmptyNormalization)
	})

	t.Run("raw HTML mode forwards the page unchanged", func(t *testing.T) {
		t.Parallel()

		const html = `<html><body><nav>menu</nav><p>Content</p></body></html>`
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) { return html, nil },
		}
		formatter := &mock.Formatter{
			FormatFn: func(_ context.Context, req pagemark.FormatRequest) (string, error) {
				assert.Equal(t, html, req.Content)
				return "Content", nil
			},
		}

		p := &pipeline.Pipeline{Fetcher: fetcher, Normalizer: normalize.New(), Formatter: formatter}

		result, err := p.Convert(context.Background(), "https://example.com", pagemark.ModeRawHTML)

		require.NoError(t, err)
		assert.Equal(t, "Content", result.Markdown)
	})

	t.Run("external mode bypasses fetch and normalization", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Fatal("fetcher must not be called for external mode")
				return "", nil
			},
		}
		external := &mock.ExternalConverter{
			ConvertFn: func(_ context.Context, rawURL string) (string, error) {
				assert.Equal(t, "https://example.com/doc", rawURL)
				return "# External Markdown", nil
			},
		}

		p := &pipeline.Pipeline{Fetcher: fetcher, Normalizer: normalize.New(), External: external}

		result, err := p.Convert(context.Background(), "https://example.com/doc", pagemark.ModeExternalAPI)

		require.NoError(t, err)
		assert.Equal(t, "# External Markdown", result.Markdown)
		assert.Equal(t, pagemark.ModeExternalAPI, result.Mode)
		assert.Empty(t, result.ContentHash)
	})

	t.Run("external mode without endpoint is unavailable", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{Normalizer: normalize.New()}

		_, err := p.Convert(context.Background(), "https://example.com", pagemark.ModeExternalAPI)

		require.Error(t, err)
		assert.Equal(t, pagemark.EUNAVAILABLE, pagemark.ErrorCode(err))
	})

	t.Run("missing formatter is unavailable", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<p>x</p>", nil },
			},
			Normalizer: normalize.New(),
		}

		_, err := p.Convert(context.Background(), "https://example.com", pagemark.ModeFullPage)

		require.Error(t, err)
		assert.Equal(t, pagemark.EUNAVAILABLE, pagemark.ErrorCode(err))
	})

	t.Run("flags empty normalization and still formats", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return `<script>only()</script>`, nil
			},
		}
		formatted := false
		formatter := &mock.Formatter{
			FormatFn: func(_ context.Context, req pagemark.FormatRequest) (string, error) {
				formatted = true
				assert.Empty(t, req.Content)
				return "", nil
			},
		}

		p := &pipeline.Pipeline{Fetcher: fetcher, Normalizer: normalize.New(), Formatter: formatter}

		result, err := p.Convert(context.Background(), "https://example.com", pagemark.ModeFullPage)

		require.NoError(t, err)
		assert.True(t, formatted, "empty content must still be forwarded")
		assert.True(t, result.EmptyNormalization)
	})

	t.Run("rejects invalid mode", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{Normalizer: normalize.New()}

		_, err := p.Convert(context.Background(), "https://example.com", "bogus")

		require.Error(t, err)
		assert.Equal(t, pagemark.EINVALID, pagemark.ErrorCode(err))
	})

	t.Run("rejects non-http URL", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{Normalizer: normalize.New()}

		_, err := p.Convert(context.Background(), "ftp://example.com/file", pagemark.ModeFullPage)

		require.Error(t, err)
		assert.Equal(t, pagemark.EINVALID, pagemark.ErrorCode(err))
	})

	t.Run("waits on the domain rate limiter", func(t *testing.T) {
		t.Parallel()

		var limitedDomain string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				limitedDomain = domain
				return nil
			},
		}

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<p>x</p>", nil },
			},
			RateLimiter: limiter,
			Normalizer:  normalize.New(),
			Formatter: &mock.Formatter{
				FormatFn: func(_ context.Context, _ pagemark.FormatRequest) (string, error) { return "x", nil },
			},
		}

		_, err := p.Convert(context.Background(), "https://docs.example.com/a/b", pagemark.ModeFullPage)

		require.NoError(t, err)
		assert.Equal(t, "docs.example.com", limitedDomain)
	})

	t.Run("marks repeat fetches of the same URL", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<p>x</p>", nil },
			},
			Normalizer: normalize.New(),
			Formatter: &mock.Formatter{
				FormatFn: func(_ context.Context, _ pagemark.FormatRequest) (string, error) { return "x", nil },
			},
			Seen: bloom.NewFilter(100, 0.001),
		}

		first, err := p.Convert(context.Background(), "https://example.com/p", pagemark.ModeFullPage)
		require.NoError(t, err)
		second, err := p.Convert(context.Background(), "https://example.com/p", pagemark.ModeFullPage)
		require.NoError(t, err)

		assert.False(t, first.Revisit)
		assert.True(t, second.Revisit)
	})

	t.Run("attaches page metadata to the result", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) { return "<p>x</p>", nil },
			},
			Normalizer: normalize.New(),
			Formatter: &mock.Formatter{
				FormatFn: func(_ context.Context, _ pagemark.FormatRequest) (string, error) { return "x", nil },
			},
			Meta: &mock.MetaExtractor{
				ExtractMetaFn: func(_ string) (*pagemark.PageMeta, error) {
					return &pagemark.PageMeta{Title: "Example Page", Description: "About examples"}, nil
				},
			},
		}

		result, err := p.Convert(context.Background(), "https://example.com", pagemark.ModeFullPage)

		require.NoError(t, err)
		assert.Equal(t, "Example Page", result.Title)
		assert.Equal(t, "About examples", result.Description)
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("connection refused")
				},
			},
			Normalizer: normalize.New(),
			Formatter: &mock.Formatter{
				FormatFn: func(_ context.Context, _ pagemark.FormatRequest) (string, error) { return "", nil },
			},
		}

		_, err := p.Convert(context.Background(), "https://example.com", pagemark.ModeFullPage)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestPipeline_ChatContext(t *testing.T) {
	t.Parallel()

	t.Run("extracts and converts main content", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html><body><article>stuff</article></body></html>", nil
				},
			},
			Normalizer: normalize.New(),
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*pagemark.ExtractResult, error) {
					return &pagemark.ExtractResult{Title: "Article", ContentHTML: "<p>stuff</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					assert.Equal(t, "<p>stuff</p>", html)
					return "stuff", nil
				},
			},
		}

		title, doc, err := p.ChatContext(context.Background(), "https://example.com/article")

		require.NoError(t, err)
		assert.Equal(t, "Article", title)
		assert.Equal(t, "stuff", doc)
	})

	t.Run("falls back to stripped page when extraction fails", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html><body><p>fallback text</p></body></html>", nil
				},
			},
			Normalizer: normalize.New(),
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*pagemark.ExtractResult, error) {
					return nil, errors.New("no content found")
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) { return "", nil },
			},
		}

		title, doc, err := p.ChatContext(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Empty(t, title)
		assert.Contains(t, doc, "fallback text")
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("timeout")
				},
			},
			Normalizer: normalize.New(),
		}

		_, _, err := p.ChatContext(context.Background(), "https://example.com")

		require.Error(t, err)
	})
}
