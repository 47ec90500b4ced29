// Package gemini implements content formatting and chat using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagemark/pagemark"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Formatter implements pagemark.Formatter at compile time.
var _ pagemark.Formatter = (*Formatter)(nil)

// Formatter implements pagemark.Formatter using Google Gemini. It turns
// fetched page content, pre-stripped text or raw HTML depending on the
// processing mode, into clean Markdown.
type Formatter struct {
	client *genai.Client
	model  string

	counter     pagemark.TokenCounter
	tokenBudget int
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithModel overrides the Gemini model.
func WithModel(model string) FormatterOption {
	return func(f *Formatter) {
		f.model = model
	}
}

// WithTokenBudget rejects content whose token count exceeds max before any
// API call is made. A nil counter or non-positive max disables the check.
func WithTokenBudget(counter pagemark.TokenCounter, max int) FormatterOption {
	return func(f *Formatter) {
		f.counter = counter
		f.tokenBudget = max
	}
}

// NewFormatter creates a new Formatter.
func NewFormatter(client *genai.Client, opts ...FormatterOption) *Formatter {
	f := &Formatter{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format converts the request's content to Markdown.
func (f *Formatter) Format(ctx context.Context, req pagemark.FormatRequest) (string, error) {
	if req.SourceURL == "" {
		return "", pagemark.Errorf(pagemark.EINVALID, "source URL required")
	}
	if !req.Mode.Valid() {
		return "", pagemark.Errorf(pagemark.EINVALID, "invalid processing mode %q", req.Mode)
	}
	if req.Mode == pagemark.ModeExternalAPI {
		return "", pagemark.Errorf(pagemark.EINVALID, "external API mode is not formatted locally")
	}

	if f.counter != nil && f.tokenBudget > 0 {
		count, err := f.counter.CountTokens(ctx, req.Content)
		if err != nil {
			return "", err
		}
		if count > f.tokenBudget {
			return "", pagemark.Errorf(pagemark.ETOOLARGE,
				"content is %d tokens, limit is %d", count, f.tokenBudget)
		}
	}

	prompt := BuildFormatPrompt(req)
	config := BuildFormatConfig(req.Mode)

	result, err := f.client.Models.GenerateContent(ctx, f.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", pagemark.Errorf(pagemark.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildFormatConfig returns the GenerateContentConfig for a formatting call.
// Raw HTML mode instructs the model to do its own extraction; the stripped
// modes receive plain text and the model reconstructs document structure.
func BuildFormatConfig(mode pagemark.ProcessingMode) *genai.GenerateContentConfig {
	temp := float32(0.2)

	instruction := "You are a content formatter. The page content below has already had its HTML tags stripped. Reconstruct the document structure as well-formed Markdown: headings, paragraphs, lists, and emphasis where the text implies them. Preserve the original wording. Output only the Markdown document."
	if mode == pagemark.ModeRawHTML {
		instruction = "You are a content formatter. The page content below is raw HTML. Identify the main content, discard navigation, ads, and other boilerplate, and convert it to well-formed Markdown. Preserve the original wording. Output only the Markdown document."
	}

	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
		Temperature: &temp,
	}
}

// BuildFormatPrompt builds the user prompt carrying the page content plus
// its source URL and processing mode.
func BuildFormatPrompt(req pagemark.FormatRequest) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<source>%s</source>\n", req.SourceURL)
	fmt.Fprintf(&sb, "<processing>%s</processing>\n", req.Mode)
	fmt.Fprintf(&sb, "<content>%s</content>\n", req.Content)
	sb.WriteString("</page>\n\nConvert the page content to Markdown.")
	return sb.String()
}
