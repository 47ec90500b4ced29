// Package normalize implements the deterministic HTML-to-plain-text
// pipeline that prepares fetched pages for the content formatter.
//
// The pipeline is pattern-based rather than tree-aware: tags are matched by
// name with regular expressions, not a parsed DOM, so malformed or
// overlapping markup still strips cleanly but may produce extra blank lines
// instead of corruption. Stray angle brackets that happen to look like tags
// are removed too; this is a known approximation, tolerated because the
// downstream model is the final consumer and repairs residual artifacts.
package normalize

import (
	"regexp"
	"strings"

	"github.com/pagemark/pagemark"
)

// Ensure Normalizer implements pagemark.Normalizer at compile time.
var _ pagemark.Normalizer = (*Normalizer)(nil)

// blockTags are the tag names that imply a line break in plain text:
// paragraphs, headings, list items, table structure, sectioning elements,
// definition lists, and figures.
const blockTags = `p|div|h[1-6]|li|blockquote|td|th|tr|caption|section|article|aside|nav|header|footer|address|dl|dt|dd|figure|figcaption`

var (
	bodyRe       = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body\s*>`)
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	styleRe      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style\s*>`)
	blockOpenRe  = regexp.MustCompile(`(?i)<(?:` + blockTags + `)(?:\s[^>]*)?>`)
	blockCloseRe = regexp.MustCompile(`(?i)</(?:` + blockTags + `)\s*>`)
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrRe         = regexp.MustCompile(`(?i)<hr\s*/?>`)
	tagRe        = regexp.MustCompile(`<[^<>]*>`)
	spaceRunRe   = regexp.MustCompile(` {2,}`)
	blankRunRe   = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
)

// entityReplacer decodes the fixed table of named entities. Entities
// outside this table are left undecoded; the model tolerates them.
// &#39; and &apos; are both accepted spellings of the apostrophe.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&copy;", "©",
	"&reg;", "®",
)

// Normalizer applies the mode-dispatched normalization pipeline.
// It holds no state and is safe for concurrent use.
type Normalizer struct{}

// New creates a new Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize dispatches raw HTML to the transforms selected by mode.
// ModeRawHTML returns the input byte-for-byte unchanged. ModeExternalAPI is
// rejected: external conversions never reach the normalizer, so receiving
// that mode here is a programming error in the caller.
func (n *Normalizer) Normalize(html string, mode pagemark.ProcessingMode) (string, error) {
	switch mode {
	case pagemark.ModeExtractBody:
		return StripTags(ExtractBody(html)), nil
	case pagemark.ModeFullPage:
		return StripTags(html), nil
	case pagemark.ModeRawHTML:
		return html, nil
	case pagemark.ModeExternalAPI:
		return "", pagemark.Errorf(pagemark.EINVALID, "external_api mode bypasses the normalizer")
	default:
		return "", pagemark.Errorf(pagemark.EINVALID, "invalid processing mode %q", mode)
	}
}

// ExtractBody narrows html to the content of the first <body> element,
// trimmed of surrounding whitespace. The match is case-insensitive, allows
// attributes on the opening tag, and takes the first lazy match over the
// whole document. When no body tag is present, or the body is empty after
// trimming, the input is returned unchanged: extraction must never reduce
// a page to nothing as a side effect.
func ExtractBody(html string) string {
	m := bodyRe.FindStringSubmatch(html)
	if m == nil {
		return html
	}
	body := strings.TrimSpace(m[1])
	if body == "" {
		return html
	}
	return body
}

// StripTags converts an HTML fragment into plain text with inferred line
// breaks. The ordered passes: drop script and style elements wholesale,
// insert newlines around block-level tags, turn <br> into a newline and
// <hr> into a thematic break, remove every remaining tag, decode the fixed
// entity table, and normalize whitespace.
//
// StripTags never fails: empty input yields an empty string and malformed
// input degrades to whatever text could be extracted.
func StripTags(html string) string {
	s := scriptRe.ReplaceAllString(html, "")
	s = styleRe.ReplaceAllString(s, "")
	s = blockOpenRe.ReplaceAllString(s, "\n$0")
	s = blockCloseRe.ReplaceAllString(s, "$0\n")
	s = brRe.ReplaceAllString(s, "\n")
	s = hrRe.ReplaceAllString(s, "\n\n---\n\n")
	s = tagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return NormalizeWhitespace(s)
}

// NormalizeWhitespace collapses runs of spaces to one space, reduces any
// run of blank lines (lines containing only spaces or tabs) to exactly one
// blank line, and trims leading and trailing whitespace. The result is a
// fixed point: normalizing already-normalized text returns it unchanged.
func NormalizeWhitespace(s string) string {
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
