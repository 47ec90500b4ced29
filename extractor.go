package pagemark

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Used to build the context document handed to the chat agent.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts clean HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// PageMeta holds metadata scraped from a page head.
type PageMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// MetaExtractor extracts page metadata from raw HTML. Used to label
// conversion results and saved items.
type MetaExtractor interface {
	ExtractMeta(html string) (*PageMeta, error)
}
