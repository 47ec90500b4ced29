// Package trafilatura implements main-content extraction using
// go-trafilatura. The chat agent's page context comes from here so answers
// are grounded in the article body, not navigation chrome.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pagemark/pagemark"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagemark.Extractor at compile time.
var _ pagemark.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main content out of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page's title and main content
// as HTML. Pages where no main content can be identified return an empty
// ContentHTML rather than an error, so callers can fall back to the full
// page text.
func (e *Extractor) Extract(rawHTML string) (*pagemark.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagemark.Errorf(pagemark.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &pagemark.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node back to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
