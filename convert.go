package pagemark

import (
	"context"
	"time"
)

// Result holds the outcome of one URL-to-Markdown conversion.
type Result struct {
	SourceURL   string         `json:"sourceUrl"`
	Mode        ProcessingMode `json:"mode"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Markdown    string         `json:"markdown"`
	ContentHash string         `json:"contentHash,omitempty"`
	Bytes       int            `json:"bytes,omitempty"`
	FetchedAt   time.Time      `json:"fetchedAt"`

	// Revisit is set when the URL was already fetched earlier in the life
	// of this process.
	Revisit bool `json:"revisit,omitempty"`

	// EmptyNormalization flags the recoverable-but-notable condition where
	// normalization yielded an empty payload. The empty payload is still
	// forwarded to the formatter.
	EmptyNormalization bool `json:"emptyNormalization,omitempty"`
}

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch performs a single GET against the URL and returns the response
	// body decoded to UTF-8. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Normalizer converts raw HTML into the text payload handed to the content
// formatter, according to the processing mode. Implementations never fail
// on malformed markup; they degrade to returning as much text as could be
// extracted.
type Normalizer interface {
	Normalize(html string, mode ProcessingMode) (string, error)
}

// FormatRequest carries the normalized content to the formatter together
// with the source URL and mode tag, which are included in the prompt for
// audit purposes.
type FormatRequest struct {
	SourceURL string
	Mode      ProcessingMode
	Content   string
}

// Formatter turns normalized text (or raw HTML under ModeRawHTML) into
// Markdown.
type Formatter interface {
	Format(ctx context.Context, req FormatRequest) (string, error)
}

// ExternalConverter forwards a raw URL to an external endpoint that
// performs fetch and formatting itself. Used for ModeExternalAPI.
type ExternalConverter interface {
	Convert(ctx context.Context, rawURL string) (markdown string, err error)
}

// DomainLimiter rate limits outbound requests per domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	Wait(ctx context.Context, domain string) error
}

// TokenCounter counts model tokens in text, used to enforce prompt budgets.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
