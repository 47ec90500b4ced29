// Package goquery implements HTML metadata extraction using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagemark/pagemark"
)

// Ensure MetaExtractor implements pagemark.MetaExtractor at compile time.
var _ pagemark.MetaExtractor = (*MetaExtractor)(nil)

// MetaExtractor pulls a page's title and description out of its HTML head.
// Open Graph tags win for the title since sites curate them for sharing;
// the plain description meta tag wins for the description since og:description
// is often truncated.
type MetaExtractor struct{}

// NewMetaExtractor creates a new MetaExtractor.
func NewMetaExtractor() *MetaExtractor {
	return &MetaExtractor{}
}

// ExtractMeta parses html and returns its title and description. Pages
// missing both simply yield empty fields, not an error.
func (e *MetaExtractor) ExtractMeta(html string) (*pagemark.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagemark.Errorf(pagemark.EINVALID, "parsing HTML: %s", err)
	}

	meta := &pagemark.PageMeta{
		Title:       e.extractTitle(doc),
		Description: e.extractDescription(doc),
	}
	return meta, nil
}

func (e *MetaExtractor) extractTitle(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (e *MetaExtractor) extractDescription(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		if desc := strings.TrimSpace(content); desc != "" {
			return desc
		}
	}
	if content, ok := doc.Find("meta[property='og:description']").First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}
